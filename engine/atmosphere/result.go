package atmosphere

// AtmosResult holds the three baked tables. The engine hands ownership of the buffers to the
// caller, who drops them with Release once they have been uploaded or serialized.
type AtmosResult struct {
	Transmittance TableSize2D
	Scattering    TableSize4D
	Irradiance    TableSize2D

	// TransmittanceRGB has Width*Height*3 elements; see TransmittanceOffset.
	TransmittanceRGB []float32
	// ScatteringRGBA has R*Mu*MuS*Nu*4 elements; see ScatteringOffset.
	ScatteringRGBA []float32
	// IrradianceRGB has Width*Height*3 elements; see IrradianceOffset.
	IrradianceRGB []float32
}

// Release drops the three buffers. The result is unusable afterwards.
func (r *AtmosResult) Release() {
	if r == nil {
		return
	}
	r.TransmittanceRGB = nil
	r.ScatteringRGBA = nil
	r.IrradianceRGB = nil
}

// TransmittanceAt returns the transmittance stored for texel (u, v).
//
// Parameters:
//   - u: the column (view cosine axis)
//   - v: the row (radius axis)
//
// Returns:
//   - RGB: the stored transmittance
func (r *AtmosResult) TransmittanceAt(u, v int) RGB {
	o := TransmittanceOffset(r.Transmittance, u, v, 0)
	return RGB{float64(r.TransmittanceRGB[o]), float64(r.TransmittanceRGB[o+1]), float64(r.TransmittanceRGB[o+2])}
}

// IrradianceAt returns the irradiance stored for texel (u, v).
//
// Parameters:
//   - u: the column (solar cosine axis)
//   - v: the row (radius axis)
//
// Returns:
//   - RGB: the stored irradiance
func (r *AtmosResult) IrradianceAt(u, v int) RGB {
	o := IrradianceOffset(r.Irradiance, u, v, 0)
	return RGB{float64(r.IrradianceRGB[o]), float64(r.IrradianceRGB[o+1]), float64(r.IrradianceRGB[o+2])}
}

// ScatteringAt returns the RGBA stored for the given table coordinates.
//
// Parameters:
//   - ri, mui, musi, nui: the table indices
//
// Returns:
//   - RGBA: Rayleigh RGB and the Mie scalar
func (r *AtmosResult) ScatteringAt(ri, mui, musi, nui int) RGBA {
	o := ScatteringOffset(r.Scattering, ri, mui, musi, nui, 0)
	s := r.ScatteringRGBA[o : o+4]
	return RGBA{float64(s[0]), float64(s[1]), float64(s[2]), float64(s[3])}
}
