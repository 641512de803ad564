package atmosphere

import (
	"math"

	"github.com/Carmen-Shannon/oxy-atmos/common"
)

// DensityLayer is one term of a vertical density function:
// ExpTerm*exp(-h/Scale) + LinearTerm*h + ConstantTerm.
type DensityLayer struct {
	// Width is a hard altitude cutoff in meters. When > 0 the layer contributes nothing above it.
	Width float64 `toml:"width"`
	// ExpTerm is the coefficient of the exponential term.
	ExpTerm float64 `toml:"exp_term"`
	// LinearTerm is the coefficient of the linear term, per meter.
	LinearTerm float64 `toml:"linear_term"`
	// ConstantTerm is the constant offset.
	ConstantTerm float64 `toml:"constant_term"`
	// Scale is the exponential falloff length in meters. The exponential term is skipped when Scale <= 0.
	Scale float64 `toml:"scale"`
}

// DensityProfile is a two-layer density function for one species.
// The sampled density is the sum of both layers clamped to [0, 1].
type DensityProfile struct {
	Layers [2]DensityLayer `toml:"layers"`
}

// ExponentialProfile returns a profile with a single exponential layer of the given scale height.
//
// Parameters:
//   - scale: the exponential falloff length in meters
//
// Returns:
//   - DensityProfile: the profile exp(-h/scale)
func ExponentialProfile(scale float64) DensityProfile {
	return DensityProfile{Layers: [2]DensityLayer{{}, {ExpTerm: 1, Scale: scale}}}
}

// contribution evaluates the layer at altitude h.
func (l DensityLayer) contribution(h float64) float64 {
	if l.Width > 0 && h > l.Width {
		return 0
	}
	v := l.LinearTerm*h + l.ConstantTerm
	if l.ExpTerm != 0 && l.Scale > 0 {
		v += l.ExpTerm * math.Exp(-h/l.Scale)
	}
	return v
}

// SampleDensity evaluates the profile at the given altitude above the ground.
// Callers pass max(0, r-groundRadius), so altitude is never negative.
//
// Parameters:
//   - profile: the density profile to evaluate
//   - altitude: the altitude in meters
//
// Returns:
//   - float64: the density fraction in [0, 1]
func SampleDensity(profile DensityProfile, altitude float64) float64 {
	sum := profile.Layers[0].contribution(altitude) + profile.Layers[1].contribution(altitude)
	return common.Clamp(sum, 0, 1)
}
