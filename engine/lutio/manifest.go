package lutio

import (
	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
)

// FormatVersion is the version of the on-disk layout written by Write.
const FormatVersion = 1

// File names inside a LUT directory.
const (
	ManifestFile      = "atmosphere.toml"
	TransmittanceFile = "transmittance.bin"
	ScatteringFile    = "scattering.bin"
	IrradianceFile    = "irradiance.bin"
)

// Layout strings recorded in the manifest. They name the index order of the flat buffers,
// slowest-varying first, followed by the channel count.
const (
	TransmittanceLayout = "r,mu:rgb"
	ScatteringLayout    = "r,mu,mu_s,nu:rgba"
	IrradianceLayout    = "r,mu_s:rgb"
)

// TableEntry describes one raw table file.
type TableEntry struct {
	File     string `toml:"file"`
	Layout   string `toml:"layout"`
	Dims     []int  `toml:"dims"`
	Channels int    `toml:"channels"`
	// Elements is the number of float32 values in the file.
	Elements int `toml:"elements"`
}

// Manifest is the TOML document describing a LUT directory.
type Manifest struct {
	FormatVersion int    `toml:"format_version"`
	ByteOrder     string `toml:"byte_order"`
	ValueType     string `toml:"value_type"`

	Transmittance TableEntry `toml:"transmittance"`
	Scattering    TableEntry `toml:"scattering"`
	Irradiance    TableEntry `toml:"irradiance"`

	// Params are the parameters the tables were baked from.
	Params atmosphere.AtmosParams `toml:"params"`
}

// NewManifest describes a bake result baked from params.
//
// Parameters:
//   - params: the parameters of the bake
//   - result: the bake result
//
// Returns:
//   - *Manifest: the manifest
func NewManifest(params atmosphere.AtmosParams, result *atmosphere.AtmosResult) *Manifest {
	t, s, i := result.Transmittance, result.Scattering, result.Irradiance
	return &Manifest{
		FormatVersion: FormatVersion,
		ByteOrder:     "little",
		ValueType:     "float32",
		Transmittance: TableEntry{
			File:     TransmittanceFile,
			Layout:   TransmittanceLayout,
			Dims:     []int{t.Height, t.Width},
			Channels: atmosphere.TransmittanceChannels,
			Elements: t.Texels() * atmosphere.TransmittanceChannels,
		},
		Scattering: TableEntry{
			File:     ScatteringFile,
			Layout:   ScatteringLayout,
			Dims:     []int{s.R, s.Mu, s.MuS, s.Nu},
			Channels: atmosphere.ScatteringChannels,
			Elements: s.Texels() * atmosphere.ScatteringChannels,
		},
		Irradiance: TableEntry{
			File:     IrradianceFile,
			Layout:   IrradianceLayout,
			Dims:     []int{i.Height, i.Width},
			Channels: atmosphere.IrradianceChannels,
			Elements: i.Texels() * atmosphere.IrradianceChannels,
		},
		Params: params,
	}
}
