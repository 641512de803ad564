package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-atmos/common"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackend interface {
	// Device returns the WebGPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// CreateLUTTexture creates an RGBA32Float texture from staging data, writes the texels through
	// the queue and returns the texture with a view over it.
	//
	// Parameters:
	//   - label: the debug label of the texture
	//   - stagingData: the texel data and dimensions
	//   - dimension: wgpu.TextureDimension2D or wgpu.TextureDimension3D
	//
	// Returns:
	//   - *wgpu.Texture: the texture
	//   - *wgpu.TextureView: the default view of the texture
	//   - error: an error if texture or view creation fails
	CreateLUTTexture(label string, stagingData common.TextureStagingData, dimension wgpu.TextureDimension) (*wgpu.Texture, *wgpu.TextureView, error)

	// CreateLUTSampler creates the clamp-to-edge, non-filtering sampler used to read lookup tables.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	//   - error: an error if sampler creation fails
	CreateLUTSampler() (*wgpu.Sampler, error)

	// InitBindGroup creates the bind group layout and bind group that expose the textures.
	// Populates BindGroupLayout and BindGroup on the textures.
	//
	// Parameters:
	//   - textures: the uploaded textures, views and sampler
	//
	// Returns:
	//   - error: an error if layout or bind group creation fails
	InitBindGroup(textures *AtmosphereTextures) error

	// Release releases the device, adapter and instance owned by the backend.
	// Backends wrapping an external device release nothing.
	Release()
}

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	owned    bool
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend requests a headless adapter and device. No surface is created.
func newWGPURendererBackend(forceFallbackAdapter bool, deviceLabel string) (wgpuRendererBackend, error) {
	w := &wgpuRendererBackendImpl{
		mu:       &sync.Mutex{},
		owned:    true,
		instance: wgpu.CreateInstance(nil),
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		w.instance.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: deviceLabel,
	})
	if err != nil {
		a.Release()
		w.instance.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

// wrapWGPUDevice wraps a device owned by the caller.
func wrapWGPUDevice(device *wgpu.Device, queue *wgpu.Queue) wgpuRendererBackend {
	return &wgpuRendererBackendImpl{
		mu:     &sync.Mutex{},
		device: device,
		queue:  queue,
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) CreateLUTTexture(label string, stagingData common.TextureStagingData, dimension wgpu.TextureDimension) (*wgpu.Texture, *wgpu.TextureView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	depth := max(stagingData.Depth, 1)
	size := wgpu.Extent3D{
		Width:              stagingData.Width,
		Height:             stagingData.Height,
		DepthOrArrayLayers: depth,
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     dimension,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA32Float,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s texture: %w", label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.BytesPerRow(),
			RowsPerImage: stagingData.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create %s texture view: %w", label, err)
	}

	return tex, view, nil
}

func (b *wgpuRendererBackendImpl) CreateLUTSampler() (*wgpu.Sampler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Atmosphere LUT Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LUT sampler: %w", err)
	}

	return samp, nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(textures *AtmosphereTextures) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	descriptor := AtmosphereBindGroupLayoutDescriptor()
	layout, err := b.device.CreateBindGroupLayout(&descriptor)
	if err != nil {
		return fmt.Errorf("failed to create atmosphere bind group layout: %w", err)
	}
	textures.BindGroupLayout = layout

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Atmosphere Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: TransmittanceBinding, TextureView: textures.Transmittance},
			{Binding: ScatteringBinding, TextureView: textures.Scattering},
			{Binding: IrradianceBinding, TextureView: textures.Irradiance},
			{Binding: SamplerBinding, Sampler: textures.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create atmosphere bind group: %w", err)
	}
	textures.BindGroup = bindGroup

	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.owned || b.device == nil {
		return
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
	b.queue, b.device, b.adapter, b.instance = nil, nil, nil, nil
}
