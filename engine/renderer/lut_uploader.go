package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-atmos/common"
	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
	"github.com/cogentcore/webgpu/wgpu"
)

type lutUploader struct {
	backend RendererBackend
}

// LUTUploader creates GPU textures from bake results.
type LUTUploader interface {
	// Upload stages the three tables, creates RGBA32Float textures for them (2D transmittance,
	// 3D scattering, 2D irradiance), a sampler and a bind group exposing all of them.
	// On error every resource created so far is released.
	//
	// Parameters:
	//   - result: the bake result; it is not modified and may be released once Upload returns
	//
	// Returns:
	//   - *AtmosphereTextures: the created resources
	//   - error: an error if any GPU resource could not be created
	Upload(result *atmosphere.AtmosResult) (*AtmosphereTextures, error)
}

// NewLUTUploader creates an uploader over a device and queue owned by the caller.
// Use this to upload into an existing rendering engine; Renderer creates its own device.
//
// Parameters:
//   - device: the WebGPU device
//   - queue: the device's queue
//
// Returns:
//   - LUTUploader: the uploader
func NewLUTUploader(device *wgpu.Device, queue *wgpu.Queue) LUTUploader {
	if device == nil || queue == nil {
		panic("renderer: NewLUTUploader requires a device and a queue")
	}
	return &lutUploader{backend: wrapWGPUDevice(device, queue)}
}

func (u *lutUploader) Upload(result *atmosphere.AtmosResult) (*AtmosphereTextures, error) {
	if result == nil || result.TransmittanceRGB == nil || result.ScatteringRGBA == nil || result.IrradianceRGB == nil {
		return nil, errors.New("renderer: cannot upload a released or empty bake result")
	}

	out := &AtmosphereTextures{}
	tables := []struct {
		label   string
		stage   func(*atmosphere.AtmosResult) common.TextureStagingData
		dim     wgpu.TextureDimension
		binding **wgpu.TextureView
	}{
		{"Atmosphere Transmittance", StageTransmittance, wgpu.TextureDimension2D, &out.Transmittance},
		{"Atmosphere Scattering", StageScattering, wgpu.TextureDimension3D, &out.Scattering},
		{"Atmosphere Irradiance", StageIrradiance, wgpu.TextureDimension2D, &out.Irradiance},
	}
	for _, table := range tables {
		tex, view, err := u.backend.CreateLUTTexture(table.label, table.stage(result), table.dim)
		if err != nil {
			out.Release()
			return nil, err
		}
		out.textures = append(out.textures, tex)
		*table.binding = view
	}

	samp, err := u.backend.CreateLUTSampler()
	if err != nil {
		out.Release()
		return nil, err
	}
	out.Sampler = samp

	if err := u.backend.InitBindGroup(out); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}
