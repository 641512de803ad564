package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-atmos/common"
	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
)

// texel reads the RGBA32Float texel at index i of little-endian staging bytes.
func texel(s common.TextureStagingData, i int) [4]float32 {
	var out [4]float32
	for c := range out {
		o := i*rgba32FloatBytes + c*4
		out[c] = math.Float32frombits(binary.LittleEndian.Uint32(s.Pixels[o : o+4]))
	}
	return out
}

func testResult() *atmosphere.AtmosResult {
	r := &atmosphere.AtmosResult{
		Transmittance: atmosphere.TableSize2D{Width: 3, Height: 2},
		Scattering:    atmosphere.TableSize4D{R: 2, Mu: 3, MuS: 2, Nu: 2},
		Irradiance:    atmosphere.TableSize2D{Width: 2, Height: 2},
	}
	r.TransmittanceRGB = make([]float32, r.Transmittance.Texels()*3)
	for i := range r.TransmittanceRGB {
		r.TransmittanceRGB[i] = float32(i) / 100
	}
	r.ScatteringRGBA = make([]float32, r.Scattering.Texels()*4)
	for i := range r.ScatteringRGBA {
		r.ScatteringRGBA[i] = float32(i)
	}
	r.IrradianceRGB = make([]float32, r.Irradiance.Texels()*3)
	for i := range r.IrradianceRGB {
		r.IrradianceRGB[i] = float32(i) + 0.5
	}
	return r
}

func TestStageTransmittance(t *testing.T) {
	result := testResult()
	s := StageTransmittance(result)

	if s.Width != 3 || s.Height != 2 || s.Depth != 1 || s.BytesPerTexel != 16 {
		t.Fatalf("staging dims = %dx%dx%d, %d bytes per texel", s.Width, s.Height, s.Depth, s.BytesPerTexel)
	}
	if len(s.Pixels) != 3*2*16 || s.BytesPerRow() != 48 {
		t.Fatalf("len = %d, bytes per row = %d", len(s.Pixels), s.BytesPerRow())
	}
	for v := 0; v < 2; v++ {
		for u := 0; u < 3; u++ {
			got := texel(s, v*3+u)
			want := result.TransmittanceAt(u, v)
			for c := 0; c < 3; c++ {
				if float64(got[c]) != want[c] {
					t.Errorf("texel (%d, %d) channel %d = %v, want %v", u, v, c, got[c], want[c])
				}
			}
			if got[3] != 1 {
				t.Errorf("texel (%d, %d) alpha = %v, want 1", u, v, got[3])
			}
		}
	}
}

func TestStageIrradiance(t *testing.T) {
	result := testResult()
	s := StageIrradiance(result)

	if s.Width != 2 || s.Height != 2 || len(s.Pixels) != 4*16 {
		t.Fatalf("staging = %dx%d, %d bytes", s.Width, s.Height, len(s.Pixels))
	}
	if got := texel(s, 3); got != [4]float32{9.5, 10.5, 11.5, 1} {
		t.Errorf("last texel = %v", got)
	}
}

func TestStageScattering(t *testing.T) {
	result := testResult()
	s := StageScattering(result)

	if s.Width != 4 || s.Height != 3 || s.Depth != 2 {
		t.Fatalf("staging dims = %dx%dx%d, want 4x3x2", s.Width, s.Height, s.Depth)
	}
	size := result.Scattering
	for r := 0; r < size.R; r++ {
		for mu := 0; mu < size.Mu; mu++ {
			for muS := 0; muS < size.MuS; muS++ {
				for nu := 0; nu < size.Nu; nu++ {
					x, y, z := atmosphere.PackScattering(size, r, mu, muS, nu)
					got := texel(s, (z*int(s.Height)+y)*int(s.Width)+x)
					want := result.ScatteringAt(r, mu, muS, nu)
					for c := range got {
						if float64(got[c]) != want[c] {
							t.Fatalf("(%d, %d, %d, %d) channel %d = %v, want %v", r, mu, muS, nu, c, got[c], want[c])
						}
					}
				}
			}
		}
	}
}

func TestStageRGB_PanicsOnShortBuffer(t *testing.T) {
	result := testResult()
	result.IrradianceRGB = result.IrradianceRGB[:5]
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	StageIrradiance(result)
}
