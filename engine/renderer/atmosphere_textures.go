package renderer

import "github.com/cogentcore/webgpu/wgpu"

// Bindings of the atmosphere bind group.
const (
	TransmittanceBinding = 0
	ScatteringBinding    = 1
	IrradianceBinding    = 2
	SamplerBinding       = 3
)

// AtmosphereTextures holds the GPU resources created from one bake result.
// The caller owns them and must call Release when they are no longer bound.
type AtmosphereTextures struct {
	// Transmittance is a 2D view over the transmittance table.
	Transmittance *wgpu.TextureView
	// Scattering is a 3D view over the packed scattering table.
	Scattering *wgpu.TextureView
	// Irradiance is a 2D view over the irradiance table.
	Irradiance *wgpu.TextureView
	// Sampler reads the tables with clamp-to-edge addressing and no filtering.
	Sampler *wgpu.Sampler

	// BindGroupLayout and BindGroup expose the views and sampler at the bindings above.
	BindGroupLayout *wgpu.BindGroupLayout
	BindGroup       *wgpu.BindGroup

	textures []*wgpu.Texture
}

// Release releases every GPU resource held by the textures. Safe to call on a partially
// initialized value and more than once.
func (a *AtmosphereTextures) Release() {
	if a == nil {
		return
	}
	if a.BindGroup != nil {
		a.BindGroup.Release()
		a.BindGroup = nil
	}
	if a.BindGroupLayout != nil {
		a.BindGroupLayout.Release()
		a.BindGroupLayout = nil
	}
	if a.Sampler != nil {
		a.Sampler.Release()
		a.Sampler = nil
	}
	for _, view := range []**wgpu.TextureView{&a.Transmittance, &a.Scattering, &a.Irradiance} {
		if *view != nil {
			(*view).Release()
			*view = nil
		}
	}
	for _, tex := range a.textures {
		tex.Release()
	}
	a.textures = nil
}

// AtmosphereBindGroupLayoutDescriptor describes the bind group a shader uses to sample the tables:
// texture_2d<f32> at TransmittanceBinding, texture_3d<f32> at ScatteringBinding,
// texture_2d<f32> at IrradianceBinding and a non-filtering sampler at SamplerBinding.
// RGBA32Float is not filterable without an optional device feature, so the textures are
// declared unfilterable.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func AtmosphereBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	visibility := wgpu.ShaderStageFragment | wgpu.ShaderStageCompute

	texture := func(binding uint32, dim wgpu.TextureViewDimension) wgpu.BindGroupLayoutEntry {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: visibility,
		}
		entry.Texture.SampleType = wgpu.TextureSampleTypeUnfilterableFloat
		entry.Texture.ViewDimension = dim
		return entry
	}

	sampler := wgpu.BindGroupLayoutEntry{
		Binding:    SamplerBinding,
		Visibility: visibility,
	}
	sampler.Sampler.Type = wgpu.SamplerBindingTypeNonFiltering

	return wgpu.BindGroupLayoutDescriptor{
		Label: "Atmosphere Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			texture(TransmittanceBinding, wgpu.TextureViewDimension2D),
			texture(ScatteringBinding, wgpu.TextureViewDimension3D),
			texture(IrradianceBinding, wgpu.TextureViewDimension2D),
			sampler,
		},
	}
}
