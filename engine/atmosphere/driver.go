package atmosphere

// driver maps table indices to physical coordinates and writes integrator output into the
// flat result buffers. Every unit it produces writes a disjoint range of one buffer and reads
// nothing but the immutable params, so units may run in any order on any worker.
type driver struct {
	params AtmosParams
	geom   PlanetGeom
	result *AtmosResult

	transmittanceSteps int
	viewSteps          int
	sunSteps           int
	irradianceSteps    int
}

// transmittanceUnits returns one unit per table row (radius), each filling all view cosines.
func (d driver) transmittanceUnits(tick func(int)) []func() {
	size := d.params.Transmittance
	out := d.result.TransmittanceRGB

	units := make([]func(), 0, size.Height)
	for v := 0; v < size.Height; v++ {
		units = append(units, func() {
			r := RadiusAt(v, size.Height, d.geom)
			for u := 0; u < size.Width; u++ {
				t := IntegrateTransmittance(r, CosineAt(u, size.Width), d.params, d.geom, d.transmittanceSteps)
				o := TransmittanceOffset(size, u, v, 0)
				out[o] = float32(t[0])
				out[o+1] = float32(t[1])
				out[o+2] = float32(t[2])
			}
			tick(size.Width)
		})
	}
	return units
}

// irradianceUnits returns one unit per table row (radius), each filling all solar cosines.
func (d driver) irradianceUnits(tick func(int)) []func() {
	size := d.params.Irradiance
	out := d.result.IrradianceRGB

	units := make([]func(), 0, size.Height)
	for v := 0; v < size.Height; v++ {
		units = append(units, func() {
			r := RadiusAt(v, size.Height, d.geom)
			for u := 0; u < size.Width; u++ {
				e := ComputeDirectIrradiance(r, CosineAt(u, size.Width), d.params, d.geom, d.irradianceSteps)
				o := IrradianceOffset(size, u, v, 0)
				out[o] = float32(e[0])
				out[o+1] = float32(e[1])
				out[o+2] = float32(e[2])
			}
			tick(size.Width)
		})
	}
	return units
}

// scatteringUnits returns one unit per (r, mu) line, each filling every (mu_s, nu) texel of it.
// The stored value does not depend on nu, so it is integrated once per (r, mu, mu_s) and
// replicated across the nu slices.
func (d driver) scatteringUnits(tick func(int)) []func() {
	size := d.params.Scattering
	out := d.result.ScatteringRGBA

	units := make([]func(), 0, size.R*size.Mu)
	for ri := 0; ri < size.R; ri++ {
		for mui := 0; mui < size.Mu; mui++ {
			units = append(units, func() {
				r := RadiusAt(ri, size.R, d.geom)
				mu := CosineAt(mui, size.Mu)
				for musi := 0; musi < size.MuS; musi++ {
					s := IntegrateSingleScattering(r, mu, CosineAt(musi, size.MuS), d.params, d.geom, d.viewSteps, d.sunSteps)
					texel := [ScatteringChannels]float32{float32(s[0]), float32(s[1]), float32(s[2]), float32(s[3])}
					for nui := 0; nui < size.Nu; nui++ {
						o := ScatteringOffset(size, ri, mui, musi, nui, 0)
						copy(out[o:o+ScatteringChannels], texel[:])
					}
				}
				tick(size.MuS * size.Nu)
			})
		}
	}
	return units
}
