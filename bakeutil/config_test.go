package bakeutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
	"github.com/spf13/viper"
)

// newTestConfig returns a configuration holding only the option defaults.
func newTestConfig() *viper.Viper {
	cfg := viper.New()
	for _, o := range options {
		cfg.SetDefault(o.name, o.defaultVal)
	}
	return cfg
}

func TestParamsFromConfig_DefaultsAreEarth(t *testing.T) {
	p, err := ParamsFromConfig(newTestConfig())
	if err != nil {
		t.Fatalf("ParamsFromConfig() error = %v", err)
	}
	if want := atmosphere.EarthParams(); p != want {
		t.Errorf("params = %+v\nwant %+v", p, want)
	}
}

func TestOptions_FlagDefaults(t *testing.T) {
	for _, o := range options {
		if bakeCmd.Flags().Lookup(o.name) == nil && Root.PersistentFlags().Lookup(o.name) == nil {
			t.Errorf("option %s has no flag", o.name)
		}
	}
}

func TestParamsFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mars.toml")
	const doc = `
ScatteringOrders = 1

[Planet]
GroundRadius = 3389500.0
AtmosphereHeight = 100000.0

[Rayleigh]
Scattering = [1.9918e-05, 1.357e-05, 5.75e-06]
ScaleHeight = 11000.0

[Ozone]
Enabled = false

[Tables]
Transmittance = [128, 32]
Scattering = [8, 16, 8, 4]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := newTestConfig()
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	p, err := ParamsFromConfig(cfg)
	if err != nil {
		t.Fatalf("ParamsFromConfig() error = %v", err)
	}
	if p.GroundRadius != 3389500 || p.TopRadius() != 3489500 {
		t.Errorf("radii = %v, %v", p.GroundRadius, p.TopRadius())
	}
	if p.RayleighScattering != (atmosphere.RGB{1.9918e-05, 1.357e-05, 5.75e-06}) {
		t.Errorf("rayleigh = %v", p.RayleighScattering)
	}
	if p.RayleighDensity != atmosphere.ExponentialProfile(11000) {
		t.Errorf("rayleigh density = %+v", p.RayleighDensity)
	}
	if p.OzoneDensity != (atmosphere.DensityProfile{}) {
		t.Errorf("ozone should be disabled, got %+v", p.OzoneDensity)
	}
	if p.Transmittance != (atmosphere.TableSize2D{Width: 128, Height: 32}) {
		t.Errorf("transmittance = %+v", p.Transmittance)
	}
	if p.Scattering != (atmosphere.TableSize4D{R: 8, Mu: 16, MuS: 8, Nu: 4}) {
		t.Errorf("scattering = %+v", p.Scattering)
	}
	if p.Irradiance != atmosphere.EarthParams().Irradiance {
		t.Errorf("irradiance should keep its default, got %+v", p.Irradiance)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParamsFromConfig_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"Mie.Scattering", "1,2"},
		{"Sun.Irradiance", "a,b,c"},
		{"Tables.Scattering", []int{1, 2, 3}},
		{"Tables.Irradiance", "64,x"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.Set(tt.key, tt.value)
			if _, err := ParamsFromConfig(cfg); err == nil {
				t.Errorf("expected an error for %s = %v", tt.key, tt.value)
			}
		})
	}
}

func TestToRGBE(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want atmosphere.RGB
	}{
		{"csv", "1,2.5,3e-6", atmosphere.RGB{1, 2.5, 3e-6}},
		{"brackets", "[0.1, 0.2, 0.3]", atmosphere.RGB{0.1, 0.2, 0.3}},
		{"list", []interface{}{1.0, int64(2), 3.5}, atmosphere.RGB{1, 2, 3.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toRGBE(tt.in)
			if err != nil {
				t.Fatalf("toRGBE() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("toRGBE() = %v, want %v", got, tt.want)
			}
		})
	}

	rgb := atmosphere.RGB{5.802e-6, 13.558e-6, 33.1e-6}
	if got, _ := toRGBE(formatRGB(rgb)); got != rgb {
		t.Errorf("formatRGB round trip = %v, want %v", got, rgb)
	}
}
