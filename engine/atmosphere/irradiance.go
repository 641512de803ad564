package atmosphere

// ComputeDirectIrradiance returns the direct solar irradiance received by a horizontal surface
// at radius r0 with the sun at cosine muS.
//
// Parameters:
//   - r0: the radial distance of the surface
//   - muS: the cosine between the sun direction and the local up vector
//   - params: the atmosphere parameters
//   - geom: the planet shell
//   - steps: the number of quadrature steps for the sun transmittance
//
// Returns:
//   - RGB: SolarIrradiance * max(muS, 0) * TransmittanceToSun
func ComputeDirectIrradiance(r0, muS float64, params AtmosParams, geom PlanetGeom, steps int) RGB {
	cosine := max(muS, 0)
	if cosine == 0 {
		return RGB{}
	}
	sun := TransmittanceToSun(r0, muS, params, geom, steps)

	var out RGB
	for c := range out {
		out[c] = params.SolarIrradiance[c] * cosine * sun[c]
	}
	return out
}
