package lutio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
)

// ErrCorrupt is returned by Read when a directory's files disagree with its manifest.
var ErrCorrupt = errors.New("lutio: corrupt LUT directory")

// Write stores a bake result in dir as three raw little-endian float32 files and a TOML manifest.
// The directory is created if needed; existing files are overwritten.
//
// Parameters:
//   - dir: the output directory
//   - params: the parameters the result was baked from
//   - result: the bake result
//
// Returns:
//   - error: an error if any file could not be written
func Write(dir string, params atmosphere.AtmosParams, result *atmosphere.AtmosResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("lutio: creating %s: %w", dir, err)
	}

	manifest := NewManifest(params, result)
	tables := []struct {
		entry TableEntry
		data  []float32
	}{
		{manifest.Transmittance, result.TransmittanceRGB},
		{manifest.Scattering, result.ScatteringRGBA},
		{manifest.Irradiance, result.IrradianceRGB},
	}
	for _, table := range tables {
		if len(table.data) != table.entry.Elements {
			return fmt.Errorf("lutio: %s has %d elements, want %d", table.entry.File, len(table.data), table.entry.Elements)
		}
		if err := writeFloats(filepath.Join(dir, table.entry.File), table.data); err != nil {
			return err
		}
	}

	f, err := os.Create(filepath.Join(dir, ManifestFile))
	if err != nil {
		return fmt.Errorf("lutio: creating manifest: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(manifest); err != nil {
		f.Close()
		return fmt.Errorf("lutio: encoding manifest: %w", err)
	}
	return f.Close()
}

// Read loads a LUT directory written by Write.
//
// Parameters:
//   - dir: the LUT directory
//
// Returns:
//   - *Manifest: the decoded manifest
//   - *atmosphere.AtmosResult: the tables
//   - error: an error wrapping ErrCorrupt if the files do not match the manifest
func Read(dir string) (*Manifest, *atmosphere.AtmosResult, error) {
	var manifest Manifest
	if _, err := toml.DecodeFile(filepath.Join(dir, ManifestFile), &manifest); err != nil {
		return nil, nil, fmt.Errorf("lutio: decoding manifest: %w", err)
	}
	if manifest.FormatVersion != FormatVersion {
		return nil, nil, fmt.Errorf("%w: format version %d, want %d", ErrCorrupt, manifest.FormatVersion, FormatVersion)
	}

	result := &atmosphere.AtmosResult{
		Transmittance: manifest.Params.Transmittance,
		Scattering:    manifest.Params.Scattering,
		Irradiance:    manifest.Params.Irradiance,
	}
	// The manifest must describe the same tables its params would produce.
	expected := NewManifest(manifest.Params, result)

	tables := []struct {
		got, want TableEntry
		dst       *[]float32
	}{
		{manifest.Transmittance, expected.Transmittance, &result.TransmittanceRGB},
		{manifest.Scattering, expected.Scattering, &result.ScatteringRGBA},
		{manifest.Irradiance, expected.Irradiance, &result.IrradianceRGB},
	}
	for _, table := range tables {
		if table.got.Elements != table.want.Elements || table.got.Layout != table.want.Layout {
			return nil, nil, fmt.Errorf("%w: %s describes %d elements as %q, params give %d as %q", ErrCorrupt,
				table.got.File, table.got.Elements, table.got.Layout, table.want.Elements, table.want.Layout)
		}
		data, err := readFloats(filepath.Join(dir, table.want.File), table.want.Elements)
		if err != nil {
			return nil, nil, err
		}
		*table.dst = data
	}
	return &manifest, result, nil
}

func writeFloats(path string, data []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lutio: creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		f.Close()
		return fmt.Errorf("lutio: writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("lutio: writing %s: %w", path, err)
	}
	return f.Close()
}

func readFloats(path string, elements int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lutio: opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("lutio: %s: %w", path, err)
	}
	if info.Size() != int64(elements)*4 {
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", ErrCorrupt, filepath.Base(path), info.Size(), int64(elements)*4)
	}

	raw := make([]byte, info.Size())
	if _, err := io.ReadFull(bufio.NewReader(f), raw); err != nil {
		return nil, fmt.Errorf("lutio: reading %s: %w", path, err)
	}
	data := make([]float32, elements)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return data, nil
}
