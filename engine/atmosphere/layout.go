package atmosphere

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-atmos/common"
)

const (
	// TransmittanceChannels is the number of floats per transmittance texel.
	TransmittanceChannels = 3
	// ScatteringChannels is the number of floats per scattering texel.
	ScatteringChannels = 4
	// IrradianceChannels is the number of floats per irradiance texel.
	IrradianceChannels = 3
)

// RadiusAt maps a row index to a radial distance, sampling [GroundRadius, TopRadius] at texel centres.
//
// Parameters:
//   - i: the index along the radius axis
//   - n: the number of texels along the axis
//   - geom: the planet shell
//
// Returns:
//   - float64: the radial distance in meters
func RadiusAt(i, n int, geom PlanetGeom) float64 {
	return common.Lerp(geom.GroundRadius, geom.TopRadius, common.TexelCenter(i, n))
}

// CosineAt maps an index to a direction cosine, sampling [-1, 1] at texel centres.
//
// Parameters:
//   - i: the index along the cosine axis
//   - n: the number of texels along the axis
//
// Returns:
//   - float64: the direction cosine
func CosineAt(i, n int) float64 {
	return common.Lerp(-1, 1, common.TexelCenter(i, n))
}

// TransmittanceOffset returns the flat element offset of channel c of texel (u, v).
func TransmittanceOffset(size TableSize2D, u, v, c int) int {
	return ((v*size.Width)+u)*TransmittanceChannels + c
}

// IrradianceOffset returns the flat element offset of channel c of texel (u, v).
func IrradianceOffset(size TableSize2D, u, v, c int) int {
	return ((v*size.Width)+u)*IrradianceChannels + c
}

// ScatteringIndex returns the linear texel index of (r, mu, muS, nu).
func ScatteringIndex(size TableSize4D, r, mu, muS, nu int) int {
	return ((r*size.Mu+mu)*size.MuS+muS)*size.Nu + nu
}

// ScatteringOffset returns the flat element offset of channel c of texel (r, mu, muS, nu).
func ScatteringOffset(size TableSize4D, r, mu, muS, nu, c int) int {
	return ScatteringIndex(size, r, mu, muS, nu)*ScatteringChannels + c
}

// ScatteringExtent returns the dimensions of the 3D image that packs the 4D scattering table:
// X = Nu*MuS, Y = Mu, Z = R.
//
// Parameters:
//   - size: the scattering table resolution
//
// Returns:
//   - int: the X extent
//   - int: the Y extent
//   - int: the Z extent
func ScatteringExtent(size TableSize4D) (int, int, int) {
	return size.Nu * size.MuS, size.Mu, size.R
}

// PackScattering maps a 4D table coordinate to its pixel in the packed 3D image.
// Panics if any index is out of range.
//
// Parameters:
//   - size: the scattering table resolution
//   - r, mu, muS, nu: the table indices
//
// Returns:
//   - int: x = muS*Nu + nu
//   - int: y = mu
//   - int: z = r
func PackScattering(size TableSize4D, r, mu, muS, nu int) (int, int, int) {
	if r < 0 || r >= size.R || mu < 0 || mu >= size.Mu || muS < 0 || muS >= size.MuS || nu < 0 || nu >= size.Nu {
		panic(fmt.Sprintf("atmosphere: scattering index (%d, %d, %d, %d) out of range for %+v", r, mu, muS, nu, size))
	}
	return muS*size.Nu + nu, mu, r
}

// UnpackScattering maps a pixel of the packed 3D image back to its 4D table coordinate.
// Panics if the pixel is out of range.
//
// Parameters:
//   - size: the scattering table resolution
//   - x, y, z: the pixel coordinate
//
// Returns:
//   - int: r = z
//   - int: mu = y
//   - int: muS = x / Nu
//   - int: nu = x mod Nu
func UnpackScattering(size TableSize4D, x, y, z int) (int, int, int, int) {
	sx, sy, sz := ScatteringExtent(size)
	if x < 0 || x >= sx || y < 0 || y >= sy || z < 0 || z >= sz {
		panic(fmt.Sprintf("atmosphere: packed pixel (%d, %d, %d) out of range for %+v", x, y, z, size))
	}
	return z, y, x / size.Nu, x % size.Nu
}
