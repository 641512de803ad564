package bakeutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ParamsFromConfig builds atmosphere parameters from a configuration.
// RGB triplets may be given as lists (configuration files) or as comma-separated strings
// (flags and environment variables); table sizes likewise.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - atmosphere.AtmosParams: the parameters, not yet validated
//   - error: an error if a value cannot be parsed
func ParamsFromConfig(cfg *viper.Viper) (atmosphere.AtmosParams, error) {
	var p atmosphere.AtmosParams
	var err error

	p.GroundRadius = cfg.GetFloat64("Planet.GroundRadius")
	p.AtmosphereHeight = cfg.GetFloat64("Planet.AtmosphereHeight")

	rgbs := []struct {
		key string
		dst *atmosphere.RGB
	}{
		{"Rayleigh.Scattering", &p.RayleighScattering},
		{"Mie.Scattering", &p.MieScattering},
		{"Mie.Extinction", &p.MieExtinction},
		{"Ozone.Absorption", &p.OzoneAbsorption},
		{"Ground.Albedo", &p.GroundAlbedo},
		{"Sun.Irradiance", &p.SolarIrradiance},
	}
	for _, c := range rgbs {
		if *c.dst, err = toRGBE(cfg.Get(c.key)); err != nil {
			return p, fmt.Errorf("bakeutil: %s: %w", c.key, err)
		}
	}

	p.RayleighDensity = atmosphere.ExponentialProfile(cfg.GetFloat64("Rayleigh.ScaleHeight"))
	p.MieDensity = atmosphere.ExponentialProfile(cfg.GetFloat64("Mie.ScaleHeight"))
	p.MieAsymmetry = cfg.GetFloat64("Mie.Asymmetry")
	if cfg.GetBool("Ozone.Enabled") {
		p.OzoneDensity = atmosphere.OzoneProfile()
	}
	p.SunAngularRadius = cfg.GetFloat64("Sun.AngularRadius")

	var dims []int
	if dims, err = toDimsE(cfg.Get("Tables.Transmittance"), 2); err != nil {
		return p, fmt.Errorf("bakeutil: Tables.Transmittance: %w", err)
	}
	p.Transmittance = atmosphere.TableSize2D{Width: dims[0], Height: dims[1]}

	if dims, err = toDimsE(cfg.Get("Tables.Scattering"), 4); err != nil {
		return p, fmt.Errorf("bakeutil: Tables.Scattering: %w", err)
	}
	p.Scattering = atmosphere.TableSize4D{R: dims[0], Mu: dims[1], MuS: dims[2], Nu: dims[3]}

	if dims, err = toDimsE(cfg.Get("Tables.Irradiance"), 2); err != nil {
		return p, fmt.Errorf("bakeutil: Tables.Irradiance: %w", err)
	}
	p.Irradiance = atmosphere.TableSize2D{Width: dims[0], Height: dims[1]}

	p.ScatteringOrders = cfg.GetInt("ScatteringOrders")
	return p, nil
}

// toRGBE converts a configuration value to an RGB triplet.
func toRGBE(v any) (atmosphere.RGB, error) {
	var rgb atmosphere.RGB
	values, err := toFloat64SliceE(v)
	if err != nil {
		return rgb, err
	}
	if len(values) != len(rgb) {
		return rgb, fmt.Errorf("want 3 values, got %d", len(values))
	}
	copy(rgb[:], values)
	return rgb, nil
}

// toDimsE converts a configuration value to n table dimensions.
func toDimsE(v any, n int) ([]int, error) {
	var dims []int
	var err error
	if s, ok := v.(string); ok {
		dims = make([]int, 0, n)
		for _, field := range splitList(s) {
			d, err := cast.ToIntE(field)
			if err != nil {
				return nil, err
			}
			dims = append(dims, d)
		}
	} else if dims, err = cast.ToIntSliceE(v); err != nil {
		return nil, err
	}
	if len(dims) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(dims))
	}
	return dims, nil
}

// toFloat64SliceE accepts a list or a comma-separated string, optionally in brackets.
func toFloat64SliceE(v any) ([]float64, error) {
	s, ok := v.(string)
	if !ok {
		return cast.ToFloat64SliceE(v)
	}
	fields := splitList(s)
	out := make([]float64, len(fields))
	for i, field := range fields {
		f, err := cast.ToFloat64E(field)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// formatRGB renders a triplet the way toRGBE parses it, without losing precision.
func formatRGB(rgb atmosphere.RGB) string {
	parts := make([]string, len(rgb))
	for i, v := range rgb {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
