package atmosphere

import (
	"fmt"
	"math"
)

// RGB is a per-channel quantity for the red, green and blue wavelengths.
type RGB [3]float64

// RGBA holds Rayleigh RGB in the first three channels and the Mie scalar in the fourth.
type RGBA [4]float64

// Average returns the mean of the three channels.
func (c RGB) Average() float64 {
	return (c[0] + c[1] + c[2]) / 3
}

// TableSize2D is the resolution of a two-dimensional table.
type TableSize2D struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Texels returns Width*Height.
func (s TableSize2D) Texels() int {
	return s.Width * s.Height
}

// TableSize4D is the resolution of the scattering table along r, mu, mu_s and nu.
type TableSize4D struct {
	R   int `toml:"r"`
	Mu  int `toml:"mu"`
	MuS int `toml:"mu_s"`
	Nu  int `toml:"nu"`
}

// Texels returns R*Mu*MuS*Nu.
func (s TableSize4D) Texels() int {
	return s.R * s.Mu * s.MuS * s.Nu
}

// AtmosParams is the full input to a bake. A bake is a pure function of these values.
type AtmosParams struct {
	// GroundRadius is the planet radius in meters.
	GroundRadius float64 `toml:"ground_radius"`
	// AtmosphereHeight is the shell thickness in meters. The top-of-atmosphere radius is GroundRadius + AtmosphereHeight.
	AtmosphereHeight float64 `toml:"atmosphere_height"`

	// RayleighScattering is the per-channel Rayleigh scattering coefficient at density 1, per meter.
	RayleighScattering RGB            `toml:"rayleigh_scattering"`
	RayleighDensity    DensityProfile `toml:"rayleigh_density"`

	// MieScattering and MieExtinction are per-channel Mie coefficients at density 1, per meter.
	MieScattering RGB            `toml:"mie_scattering"`
	MieExtinction RGB            `toml:"mie_extinction"`
	MieDensity    DensityProfile `toml:"mie_density"`
	// MieAsymmetry is the g parameter of the Mie phase function.
	MieAsymmetry float64 `toml:"mie_asymmetry"`

	// OzoneAbsorption is the per-channel ozone absorption coefficient at density 1, per meter.
	OzoneAbsorption RGB            `toml:"ozone_absorption"`
	OzoneDensity    DensityProfile `toml:"ozone_density"`

	GroundAlbedo     RGB     `toml:"ground_albedo"`
	SolarIrradiance  RGB     `toml:"solar_irradiance"`
	SunAngularRadius float64 `toml:"sun_angular_radius"`

	Transmittance TableSize2D `toml:"transmittance"`
	Scattering    TableSize4D `toml:"scattering"`
	Irradiance    TableSize2D `toml:"irradiance"`

	// ScatteringOrders is accepted for compatibility but has no effect; only single scattering is baked.
	ScatteringOrders int `toml:"scattering_orders"`
}

// TopRadius returns the top-of-atmosphere radius.
func (p AtmosParams) TopRadius() float64 {
	return p.GroundRadius + p.AtmosphereHeight
}

// Validate checks the configuration invariants required for a bake.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig describing the first violated invariant, or nil
func (p AtmosParams) Validate() error {
	if !(p.GroundRadius > 0) || math.IsInf(p.GroundRadius, 0) {
		return fmt.Errorf("%w: ground radius must be positive and finite, got %v", ErrInvalidConfig, p.GroundRadius)
	}
	if !(p.TopRadius() > p.GroundRadius) || math.IsInf(p.TopRadius(), 0) {
		return fmt.Errorf("%w: top-of-atmosphere radius %v must exceed ground radius %v", ErrInvalidConfig, p.TopRadius(), p.GroundRadius)
	}
	if p.Transmittance.Width <= 0 || p.Transmittance.Height <= 0 {
		return fmt.Errorf("%w: transmittance table %dx%d must have positive dimensions", ErrInvalidConfig, p.Transmittance.Width, p.Transmittance.Height)
	}
	if p.Scattering.R <= 0 || p.Scattering.Mu <= 0 || p.Scattering.MuS <= 0 || p.Scattering.Nu <= 0 {
		return fmt.Errorf("%w: scattering table %dx%dx%dx%d must have positive dimensions", ErrInvalidConfig,
			p.Scattering.R, p.Scattering.Mu, p.Scattering.MuS, p.Scattering.Nu)
	}
	if p.Irradiance.Width <= 0 || p.Irradiance.Height <= 0 {
		return fmt.Errorf("%w: irradiance table %dx%d must have positive dimensions", ErrInvalidConfig, p.Irradiance.Width, p.Irradiance.Height)
	}

	coefficients := []struct {
		name string
		rgb  RGB
	}{
		{"rayleigh scattering", p.RayleighScattering},
		{"mie scattering", p.MieScattering},
		{"mie extinction", p.MieExtinction},
		{"ozone absorption", p.OzoneAbsorption},
		{"solar irradiance", p.SolarIrradiance},
		{"ground albedo", p.GroundAlbedo},
	}
	for _, c := range coefficients {
		for i, v := range c.rgb {
			if !(v >= 0) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s channel %d must be finite and non-negative, got %v", ErrInvalidConfig, c.name, i, v)
			}
		}
	}

	profiles := []struct {
		name    string
		profile DensityProfile
	}{
		{"rayleigh density", p.RayleighDensity},
		{"mie density", p.MieDensity},
		{"ozone density", p.OzoneDensity},
	}
	for _, pr := range profiles {
		for i, l := range pr.profile.Layers {
			for _, v := range []float64{l.Width, l.ExpTerm, l.Scale, l.LinearTerm, l.ConstantTerm} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("%w: %s layer %d has non-finite term %v", ErrInvalidConfig, pr.name, i, v)
				}
			}
		}
	}

	if !(p.MieAsymmetry > -1 && p.MieAsymmetry < 1) {
		return fmt.Errorf("%w: mie asymmetry must be in (-1, 1), got %v", ErrInvalidConfig, p.MieAsymmetry)
	}
	if !(p.SunAngularRadius >= 0) || math.IsInf(p.SunAngularRadius, 0) {
		return fmt.Errorf("%w: sun angular radius must be finite and non-negative, got %v", ErrInvalidConfig, p.SunAngularRadius)
	}
	return nil
}

// EarthParams returns an Earth-like atmosphere with the default table resolutions.
//
// Returns:
//   - AtmosParams: the preset parameters
func EarthParams() AtmosParams {
	return AtmosParams{
		GroundRadius:       6360000,
		AtmosphereHeight:   60000,
		RayleighScattering: RGB{5.802e-6, 13.558e-6, 33.1e-6},
		RayleighDensity:    ExponentialProfile(8000),
		MieScattering:      RGB{3.996e-6, 3.996e-6, 3.996e-6},
		MieExtinction:      RGB{4.40e-6, 4.40e-6, 4.40e-6},
		MieDensity:         ExponentialProfile(1200),
		MieAsymmetry:       0.8,
		OzoneAbsorption:    RGB{0.650e-6, 1.881e-6, 0.085e-6},
		OzoneDensity:       OzoneProfile(),
		GroundAlbedo:       RGB{0.1, 0.1, 0.1},
		SolarIrradiance:    RGB{1.474, 1.8504, 1.91198},
		SunAngularRadius:   0.004675,
		Transmittance:      TableSize2D{Width: 256, Height: 64},
		Scattering:         TableSize4D{R: 32, Mu: 128, MuS: 32, Nu: 8},
		Irradiance:         TableSize2D{Width: 64, Height: 16},
		ScatteringOrders:   4,
	}
}

// OzoneProfile returns a tent profile rising from 10 km, peaking at 25 km and vanishing at 40 km.
// The lower layer is cut off at 25 km and the upper at 40 km; below 25 km their sum is the
// rising edge h/15000 - 2/3.
//
// Returns:
//   - DensityProfile: the ozone profile
func OzoneProfile() DensityProfile {
	return DensityProfile{Layers: [2]DensityLayer{
		{Width: 25000, LinearTerm: 2.0 / 15000, ConstantTerm: -10.0 / 3},
		{Width: 40000, LinearTerm: -1.0 / 15000, ConstantTerm: 8.0 / 3},
	}}
}
