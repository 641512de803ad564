package atmosphere

import (
	"math"
	"testing"
)

func TestSampleDensity(t *testing.T) {
	tests := []struct {
		name     string
		profile  DensityProfile
		altitude float64
		want     float64
	}{
		{"exponential at ground", ExponentialProfile(8000), 0, 1},
		{"exponential one scale height", ExponentialProfile(8000), 8000, math.Exp(-1)},
		{"zero scale skips exponential", DensityProfile{Layers: [2]DensityLayer{{ExpTerm: 1, Scale: 0, ConstantTerm: 0.25}}}, 100, 0.25},
		{"width cuts layer off above", DensityProfile{Layers: [2]DensityLayer{{Width: 1000, ConstantTerm: 0.5}, {ConstantTerm: 0.1}}}, 1500, 0.1},
		{"width keeps layer at boundary", DensityProfile{Layers: [2]DensityLayer{{Width: 1000, ConstantTerm: 0.5}, {ConstantTerm: 0.1}}}, 1000, 0.6},
		{"clamped above one", DensityProfile{Layers: [2]DensityLayer{{ConstantTerm: 0.8}, {ConstantTerm: 0.8}}}, 0, 1},
		{"clamped below zero", DensityProfile{Layers: [2]DensityLayer{{ConstantTerm: -0.5}, {LinearTerm: 1e-6}}}, 100, 0},
		{"empty profile", DensityProfile{}, 5000, 0},
		{"ozone below onset", OzoneProfile(), 5000, 0},
		{"ozone onset", OzoneProfile(), 10000, 0},
		{"ozone peak", OzoneProfile(), 25000, 1},
		{"ozone falling edge", OzoneProfile(), 32500, 0.5},
		{"ozone above top", OzoneProfile(), 45000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleDensity(tt.profile, tt.altitude)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SampleDensity(%v) = %v, want %v", tt.altitude, got, tt.want)
			}
		})
	}
}

func TestSampleDensity_AlwaysInUnitRange(t *testing.T) {
	profiles := []DensityProfile{
		ExponentialProfile(8000),
		ExponentialProfile(1200),
		OzoneProfile(),
		{Layers: [2]DensityLayer{{ExpTerm: 3, Scale: 500, LinearTerm: -1e-4}, {ConstantTerm: -2, LinearTerm: 1e-4}}},
	}
	for _, p := range profiles {
		for h := 0.0; h <= 100000; h += 250 {
			d := SampleDensity(p, h)
			if d < 0 || d > 1 || math.IsNaN(d) {
				t.Fatalf("density %v at altitude %v outside [0, 1]", d, h)
			}
		}
	}
}
