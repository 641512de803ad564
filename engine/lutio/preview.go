package lutio

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Preview file names written by WritePreviews.
const (
	TransmittancePreviewFile = "transmittance.png"
	ScatteringPreviewFile    = "scattering.png"
	IrradiancePreviewFile    = "irradiance.png"
)

// previewChannel is the channel plotted in previews (blue, where Rayleigh scattering is strongest).
const previewChannel = 2

// tableGrid adapts one channel of a flat table to plotter.GridXYZ.
// Columns map to a cosine in [-1, 1] and rows to altitude in kilometers.
type tableGrid struct {
	cols, rows int
	value      func(c, r int) float64
	topKm      float64
}

var _ plotter.GridXYZ = tableGrid{}

func (g tableGrid) Dims() (int, int) { return g.cols, g.rows }

func (g tableGrid) Z(c, r int) float64 { return g.value(c, r) }

func (g tableGrid) X(c int) float64 { return atmosphere.CosineAt(c, g.cols) }

func (g tableGrid) Y(r int) float64 { return g.topKm * (float64(r) + 0.5) / float64(g.rows) }

// Min and Max give the heat map its range. A constant table gets a unit range so the
// palette scale stays finite.
func (g tableGrid) Min() float64 {
	lo, _ := g.bounds()
	return lo
}

func (g tableGrid) Max() float64 {
	_, hi := g.bounds()
	return hi
}

func (g tableGrid) bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for c := 0; c < g.cols; c++ {
		for r := 0; r < g.rows; r++ {
			v := g.value(c, r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

// WritePreviews renders heat maps of the blue channel of the transmittance and irradiance
// tables and of the scattering slice at the lowest radius and first nu, as PNGs in dir.
//
// Parameters:
//   - dir: the output directory, which must exist
//   - params: the parameters the result was baked from
//   - result: the bake result
//
// Returns:
//   - error: an error if a plot could not be saved
func WritePreviews(dir string, params atmosphere.AtmosParams, result *atmosphere.AtmosResult) error {
	topKm := params.AtmosphereHeight / 1000
	t, s, irr := result.Transmittance, result.Scattering, result.Irradiance

	previews := []struct {
		file, title, xLabel, yLabel string
		grid                        tableGrid
	}{
		{
			TransmittancePreviewFile, "Transmittance (blue)", "view cosine", "altitude (km)",
			tableGrid{cols: t.Width, rows: t.Height, topKm: topKm, value: func(c, r int) float64 {
				return float64(result.TransmittanceRGB[atmosphere.TransmittanceOffset(t, c, r, previewChannel)])
			}},
		},
		{
			IrradiancePreviewFile, "Direct irradiance (blue)", "sun cosine", "altitude (km)",
			tableGrid{cols: irr.Width, rows: irr.Height, topKm: topKm, value: func(c, r int) float64 {
				return float64(result.IrradianceRGB[atmosphere.IrradianceOffset(irr, c, r, previewChannel)])
			}},
		},
		{
			// Rows are view cosines here, mapped onto [0, 2] so the axis stays increasing.
			ScatteringPreviewFile, "Single Rayleigh scattering at ground (blue)", "sun cosine", "view cosine + 1",
			tableGrid{cols: s.MuS, rows: s.Mu, topKm: 2, value: func(c, r int) float64 {
				return float64(result.ScatteringRGBA[atmosphere.ScatteringOffset(s, 0, r, c, 0, previewChannel)])
			}},
		},
	}

	for _, preview := range previews {
		p := plot.New()
		p.Title.Text = preview.title
		p.X.Label.Text = preview.xLabel
		p.Y.Label.Text = preview.yLabel
		p.Add(plotter.NewHeatMap(preview.grid, moreland.ExtendedBlackBody().Palette(255)))

		path := filepath.Join(dir, preview.file)
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return fmt.Errorf("lutio: saving %s: %w", path, err)
		}
	}
	return nil
}
