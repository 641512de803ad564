package atmosphere

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// TableStats summarizes the finite values of one table.
type TableStats struct {
	Min       float64
	Max       float64
	Mean      float64
	NonFinite int
}

// Summary holds the statistics of all three tables of a result.
type Summary struct {
	Transmittance TableStats
	Scattering    TableStats
	Irradiance    TableStats
}

// Finite reports whether no table holds a NaN or infinity.
func (s Summary) Finite() bool {
	return s.Transmittance.NonFinite == 0 && s.Scattering.NonFinite == 0 && s.Irradiance.NonFinite == 0
}

// Summarize computes per-table statistics of a result.
//
// Parameters:
//   - result: the bake result
//
// Returns:
//   - Summary: min, max, mean and non-finite counts for each table
func Summarize(result *AtmosResult) Summary {
	return Summary{
		Transmittance: summarizeTable(result.TransmittanceRGB),
		Scattering:    summarizeTable(result.ScatteringRGBA),
		Irradiance:    summarizeTable(result.IrradianceRGB),
	}
}

func summarizeTable(table []float32) TableStats {
	values := make([]float64, 0, len(table))
	var stats TableStats
	for _, v := range table {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			stats.NonFinite++
			continue
		}
		values = append(values, f)
	}
	if len(values) == 0 {
		return stats
	}
	stats.Min = floats.Min(values)
	stats.Max = floats.Max(values)
	stats.Mean = floats.Sum(values) / float64(len(values))
	return stats
}
