package atmosphere

import "math"

const (
	// DefaultViewSteps is the number of samples along the view ray when a non-positive count is given.
	DefaultViewSteps = 64

	// DefaultSunSteps is the number of quadrature steps toward the sun at each view sample when a
	// non-positive count is given.
	DefaultSunSteps = 64
)

// IntegrateSingleScattering accumulates sunlight scattered once toward the viewer along the
// view ray from r0 with direction cosine mu, for a sun at cosine muS.
//
// The solar cosine is held constant along the ray, so the result has no dependence on the
// view-sun azimuth. No phase function is applied; consumers apply it when sampling.
//
// Parameters:
//   - r0: the radial distance of the viewer
//   - mu: the cosine between the view direction and the local up vector
//   - muS: the cosine between the sun direction and the local up vector
//   - params: the atmosphere parameters
//   - geom: the planet shell
//   - viewSteps: samples along the view ray (DefaultViewSteps if <= 0)
//   - sunSteps: quadrature steps toward the sun per sample (DefaultSunSteps if <= 0)
//
// Returns:
//   - RGBA: Rayleigh in-scattering per channel in RGB, the Mie scalar in A
func IntegrateSingleScattering(r0, mu, muS float64, params AtmosParams, geom PlanetGeom, viewSteps, sunSteps int) RGBA {
	length, _ := PathLengthToBoundary(r0, mu, geom, false)
	if length <= 0 {
		return RGBA{}
	}
	if viewSteps <= 0 {
		viewSteps = DefaultViewSteps
	}
	if sunSteps <= 0 {
		sunSteps = DefaultSunSteps
	}

	ds := length / float64(viewSteps)
	mieScattering := params.MieScattering.Average()
	solarAverage := params.SolarIrradiance.Average()

	var tau RGB
	var out RGBA
	for i := 0; i < viewSteps; i++ {
		t := (float64(i) + 0.5) * ds
		r := radiusAlong(r0, mu, t)
		h := geom.Altitude(r)

		e := extinctionAt(params, h)
		var view RGB
		for c := range view {
			view[c] = math.Exp(-(tau[c] + 0.5*e[c]*ds))
			tau[c] += e[c] * ds
		}

		rhoR := SampleDensity(params.RayleighDensity, h)
		rhoM := SampleDensity(params.MieDensity, h)
		if rhoR == 0 && rhoM == 0 {
			continue
		}

		sun := TransmittanceToSun(r, muS, params, geom, sunSteps)
		for c := 0; c < 3; c++ {
			out[c] += view[c] * params.RayleighScattering[c] * rhoR * sun[c] * params.SolarIrradiance[c] * ds
		}
		out[3] += view.Average() * mieScattering * rhoM * sun.Average() * solarAverage * ds
	}
	return out
}
