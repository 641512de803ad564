package lutio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
)

func testBake() (atmosphere.AtmosParams, *atmosphere.AtmosResult) {
	params := atmosphere.EarthParams()
	params.Transmittance = atmosphere.TableSize2D{Width: 4, Height: 3}
	params.Scattering = atmosphere.TableSize4D{R: 2, Mu: 3, MuS: 2, Nu: 2}
	params.Irradiance = atmosphere.TableSize2D{Width: 3, Height: 2}

	result := &atmosphere.AtmosResult{
		Transmittance:    params.Transmittance,
		Scattering:       params.Scattering,
		Irradiance:       params.Irradiance,
		TransmittanceRGB: make([]float32, params.Transmittance.Texels()*3),
		ScatteringRGBA:   make([]float32, params.Scattering.Texels()*4),
		IrradianceRGB:    make([]float32, params.Irradiance.Texels()*3),
	}
	for i := range result.TransmittanceRGB {
		result.TransmittanceRGB[i] = 1 / float32(i+1)
	}
	for i := range result.ScatteringRGBA {
		result.ScatteringRGBA[i] = float32(i) * 1e-3
	}
	for i := range result.IrradianceRGB {
		result.IrradianceRGB[i] = float32(i) + 0.25
	}
	return params, result
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lut")
	params, result := testBake()

	if err := Write(dir, params, result); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, ScatteringFile))
	if err != nil {
		t.Fatalf("stat scattering file: %v", err)
	}
	if info.Size() != int64(len(result.ScatteringRGBA))*4 {
		t.Errorf("scattering file is %d bytes, want %d", info.Size(), len(result.ScatteringRGBA)*4)
	}

	manifest, got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if manifest.FormatVersion != FormatVersion || manifest.ByteOrder != "little" {
		t.Errorf("manifest header = %d %q", manifest.FormatVersion, manifest.ByteOrder)
	}
	if manifest.Params != params {
		t.Errorf("params = %+v, want %+v", manifest.Params, params)
	}
	if manifest.Scattering.Layout != ScatteringLayout || len(manifest.Scattering.Dims) != 4 {
		t.Errorf("scattering entry = %+v", manifest.Scattering)
	}

	tables := []struct {
		name      string
		got, want []float32
	}{
		{"transmittance", got.TransmittanceRGB, result.TransmittanceRGB},
		{"scattering", got.ScatteringRGBA, result.ScatteringRGBA},
		{"irradiance", got.IrradianceRGB, result.IrradianceRGB},
	}
	for _, tt := range tables {
		if len(tt.got) != len(tt.want) {
			t.Fatalf("%s: %d elements, want %d", tt.name, len(tt.got), len(tt.want))
		}
		for i := range tt.want {
			if tt.got[i] != tt.want[i] {
				t.Fatalf("%s[%d] = %v, want %v", tt.name, i, tt.got[i], tt.want[i])
			}
		}
	}
	if got.Scattering != params.Scattering {
		t.Errorf("scattering size = %+v", got.Scattering)
	}
}

func TestRead_TruncatedFile(t *testing.T) {
	dir := t.TempDir()
	params, result := testBake()
	if err := Write(dir, params, result); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	path := filepath.Join(dir, IrradianceFile)
	if err := os.Truncate(path, 8); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Read(dir); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Read() error = %v, want ErrCorrupt", err)
	}
}

func TestRead_MissingManifest(t *testing.T) {
	if _, _, err := Read(t.TempDir()); err == nil {
		t.Error("expected an error for a directory without a manifest")
	}
}

func TestWrite_RejectsMismatchedBuffer(t *testing.T) {
	params, result := testBake()
	result.IrradianceRGB = result.IrradianceRGB[:2]
	if err := Write(t.TempDir(), params, result); err == nil {
		t.Error("expected an error for a short buffer")
	}
}

func TestWritePreviews(t *testing.T) {
	dir := t.TempDir()
	params, result := testBake()
	// A constant table must still render.
	for i := range result.IrradianceRGB {
		result.IrradianceRGB[i] = 0
	}

	if err := WritePreviews(dir, params, result); err != nil {
		t.Fatalf("WritePreviews() error = %v", err)
	}
	for _, name := range []string{TransmittancePreviewFile, ScatteringPreviewFile, IrradiancePreviewFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestTableGrid_Bounds(t *testing.T) {
	constant := tableGrid{cols: 2, rows: 2, topKm: 60, value: func(c, r int) float64 { return 3 }}
	if constant.Min() != 3 || constant.Max() != 4 {
		t.Errorf("constant bounds = %v, %v", constant.Min(), constant.Max())
	}
	ramp := tableGrid{cols: 3, rows: 1, topKm: 60, value: func(c, r int) float64 { return float64(c) }}
	if ramp.Min() != 0 || ramp.Max() != 2 {
		t.Errorf("ramp bounds = %v, %v", ramp.Min(), ramp.Max())
	}
	if y := ramp.Y(0); y != 30 {
		t.Errorf("Y(0) = %v, want 30", y)
	}
}
