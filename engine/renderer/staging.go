package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-atmos/common"
	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
)

// rgba32FloatBytes is the texel size of TextureFormatRGBA32Float.
const rgba32FloatBytes = 16

// StageTransmittance converts the transmittance table into RGBA32Float staging data.
// The RGB channels are copied and alpha is set to 1.
//
// Parameters:
//   - result: the bake result
//
// Returns:
//   - common.TextureStagingData: a Width x Height 2D image
func StageTransmittance(result *atmosphere.AtmosResult) common.TextureStagingData {
	return stageRGB(result.TransmittanceRGB, result.Transmittance)
}

// StageIrradiance converts the irradiance table into RGBA32Float staging data.
// The RGB channels are copied and alpha is set to 1.
//
// Parameters:
//   - result: the bake result
//
// Returns:
//   - common.TextureStagingData: a Width x Height 2D image
func StageIrradiance(result *atmosphere.AtmosResult) common.TextureStagingData {
	return stageRGB(result.IrradianceRGB, result.Irradiance)
}

// StageScattering exposes the scattering table as a 3D RGBA32Float image of
// (Nu*MuS) x Mu x R texels. The flat table order already matches the packed image,
// so the pixels alias the result's buffer and must not outlive it.
//
// Parameters:
//   - result: the bake result
//
// Returns:
//   - common.TextureStagingData: the packed 3D image
func StageScattering(result *atmosphere.AtmosResult) common.TextureStagingData {
	x, y, z := atmosphere.ScatteringExtent(result.Scattering)
	if len(result.ScatteringRGBA) != x*y*z*atmosphere.ScatteringChannels {
		panic(fmt.Sprintf("renderer: scattering buffer has %d elements, want %d", len(result.ScatteringRGBA), x*y*z*atmosphere.ScatteringChannels))
	}
	return common.TextureStagingData{
		Pixels:        common.SliceToBytes(result.ScatteringRGBA),
		Width:         uint32(x),
		Height:        uint32(y),
		Depth:         uint32(z),
		BytesPerTexel: rgba32FloatBytes,
	}
}

func stageRGB(rgb []float32, size atmosphere.TableSize2D) common.TextureStagingData {
	texels := size.Texels()
	if len(rgb) != texels*3 {
		panic(fmt.Sprintf("renderer: RGB buffer has %d elements, want %d", len(rgb), texels*3))
	}

	rgba := make([]float32, texels*4)
	for i := 0; i < texels; i++ {
		copy(rgba[i*4:i*4+3], rgb[i*3:i*3+3])
		rgba[i*4+3] = 1
	}
	return common.TextureStagingData{
		Pixels:        common.SliceToBytes(rgba),
		Width:         uint32(size.Width),
		Height:        uint32(size.Height),
		Depth:         1,
		BytesPerTexel: rgba32FloatBytes,
	}
}
