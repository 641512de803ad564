package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	uploader    LUTUploader

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	deviceLabel          string
}

// Renderer owns a headless GPU device and uploads baked atmosphere tables to it.
//
// Tools without an existing rendering engine use a Renderer to validate or consume bake output on the GPU.
// Engines that already own a device should use NewLUTUploader directly.
type Renderer interface {
	// UploadAtmosphere creates GPU textures and a bind group from a bake result.
	//
	// Parameters:
	//   - result: the bake result
	//
	// Returns:
	//   - *AtmosphereTextures: the GPU resources, owned by the caller
	//   - error: an error if upload fails
	UploadAtmosphere(result *atmosphere.AtmosResult) (*AtmosphereTextures, error)

	// Backend returns the backend type this renderer was built with.
	//
	// Returns:
	//   - RendererBackendType: the backend identifier
	Backend() RendererBackendType

	// Device returns the underlying WebGPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Release releases the device and everything the renderer created.
	// Textures returned by UploadAtmosphere must be released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer and requests a headless GPU device for the selected backend.
//
// Parameters:
//   - options: functional options for backend selection and adapter configuration
//
// Returns:
//   - Renderer: the newly created renderer
//   - error: an error if no adapter or device is available
func NewRenderer(options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeWGPU,
		deviceLabel: "Atmosphere Device",
	}

	for _, option := range options {
		option(r)
	}

	switch r.backendType {
	case BackendTypeWGPU:
		backend, err := newWGPURendererBackend(r.forceFallbackAdapter, r.deviceLabel)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = backend
	default:
		panic(fmt.Sprintf("renderer: unsupported backend %d", r.backendType))
	}
	r.uploader = &lutUploader{backend: r.backend}

	return r, nil
}

func (r *renderer) UploadAtmosphere(result *atmosphere.AtmosResult) (*AtmosphereTextures, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploader.Upload(result)
}

func (r *renderer) Backend() RendererBackendType {
	return r.backendType
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
