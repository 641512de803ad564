package atmosphere

import "math"

// DefaultTransmittanceSteps is the quadrature step count used when a non-positive count is given.
const DefaultTransmittanceSteps = 96

// extinctionAt returns the per-channel extinction coefficient at altitude h.
func extinctionAt(params AtmosParams, h float64) RGB {
	rho := SampleDensity(params.RayleighDensity, h)
	rhoM := SampleDensity(params.MieDensity, h)
	rhoO := SampleDensity(params.OzoneDensity, h)

	var e RGB
	for c := range e {
		e[c] = params.RayleighScattering[c]*rho + params.MieExtinction[c]*rhoM + params.OzoneAbsorption[c]*rhoO
	}
	return e
}

// radiusAlong returns the radial distance at distance t along a ray from r0 with cosine mu.
func radiusAlong(r0, mu, t float64) float64 {
	return math.Sqrt(max(0, r0*r0+t*t+2*t*r0*mu))
}

// IntegrateTransmittance computes the transmittance from r0 along direction cosine mu to the
// boundary of the atmosphere using fixed-step midpoint quadrature of the optical depth.
//
// Parameters:
//   - r0: the radial distance of the ray origin
//   - mu: the cosine between the ray direction and the local up vector
//   - params: the atmosphere parameters
//   - geom: the planet shell
//   - steps: the number of quadrature steps (DefaultTransmittanceSteps if <= 0)
//
// Returns:
//   - RGB: per-channel transmittance in [0, 1]; {1, 1, 1} for a zero-length path
func IntegrateTransmittance(r0, mu float64, params AtmosParams, geom PlanetGeom, steps int) RGB {
	length, _ := PathLengthToBoundary(r0, mu, geom, false)
	return transmittanceOver(r0, mu, length, params, geom, steps)
}

// transmittanceOver integrates optical depth over [0, length] along the ray.
func transmittanceOver(r0, mu, length float64, params AtmosParams, geom PlanetGeom, steps int) RGB {
	if length <= 0 {
		return RGB{1, 1, 1}
	}
	if steps <= 0 {
		steps = DefaultTransmittanceSteps
	}

	ds := length / float64(steps)
	var tau RGB
	for i := 0; i < steps; i++ {
		t := (float64(i) + 0.5) * ds
		e := extinctionAt(params, geom.Altitude(radiusAlong(r0, mu, t)))
		for c := range tau {
			tau[c] += e[c] * ds
		}
	}

	var out RGB
	for c := range out {
		out[c] = math.Exp(-tau[c])
	}
	return out
}

// TransmittanceToSun computes the attenuation of sunlight reaching r0 from direction cosine muS.
// The result is the zero vector when the planet blocks the sun or the path has no length.
//
// Parameters:
//   - r0: the radial distance of the receiving point
//   - muS: the cosine between the sun direction and the local up vector
//   - params: the atmosphere parameters
//   - geom: the planet shell
//   - steps: the number of quadrature steps (DefaultTransmittanceSteps if <= 0)
//
// Returns:
//   - RGB: per-channel solar transmittance in [0, 1]
func TransmittanceToSun(r0, muS float64, params AtmosParams, geom PlanetGeom, steps int) RGB {
	length, groundHit := PathLengthToBoundary(r0, muS, geom, true)
	if groundHit || length <= 0 {
		return RGB{}
	}
	return transmittanceOver(r0, muS, length, params, geom, steps)
}
