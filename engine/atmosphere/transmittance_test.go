package atmosphere

import (
	"math"
	"testing"
)

// emptyAtmosphere returns Earth parameters whose density profiles are all zero.
func emptyAtmosphere() AtmosParams {
	p := EarthParams()
	p.RayleighDensity = DensityProfile{}
	p.MieDensity = DensityProfile{}
	p.OzoneDensity = DensityProfile{}
	return p
}

func TestIntegrateTransmittance_Range(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)

	for r := geom.GroundRadius; r <= geom.TopRadius; r += 6000 {
		for mu := -1.0; mu <= 1.0; mu += 0.1 {
			tr := IntegrateTransmittance(r, mu, params, geom, 32)
			for c, v := range tr {
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Fatalf("channel %d = %v outside [0, 1] at r=%v mu=%v", c, v, r, mu)
				}
			}
		}
	}
}

func TestIntegrateTransmittance_EmptyAtmosphereIsOne(t *testing.T) {
	params := emptyAtmosphere()
	geom := NewPlanetGeom(params)

	for _, mu := range []float64{-1, -0.3, 0, 0.4, 1} {
		tr := IntegrateTransmittance(geom.GroundRadius+1000, mu, params, geom, 64)
		if tr != (RGB{1, 1, 1}) {
			t.Errorf("mu=%v: transmittance = %v, want exactly 1", mu, tr)
		}
	}
}

func TestIntegrateTransmittance_ZeroLengthPath(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)

	if tr := IntegrateTransmittance(geom.GroundRadius, -1, params, geom, 64); tr != (RGB{1, 1, 1}) {
		t.Errorf("ground, straight down: transmittance = %v, want 1", tr)
	}
	if tr := IntegrateTransmittance(geom.TopRadius, 1, params, geom, 64); tr != (RGB{1, 1, 1}) {
		t.Errorf("top, straight up: transmittance = %v, want 1", tr)
	}
}

func TestIntegrateTransmittance_DecreasesWithPathLength(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)

	// Looking up from lower altitudes crosses a superset of the air seen from higher up.
	prev := RGB{}
	for r := geom.TopRadius - 1000; r >= geom.GroundRadius; r -= 5000 {
		tr := IntegrateTransmittance(r, 1, params, geom, 128)
		if prev != (RGB{}) {
			for c := range tr {
				if tr[c] > prev[c]+1e-12 {
					t.Fatalf("channel %d increased from %v to %v descending to r=%v", c, prev[c], tr[c], r)
				}
			}
		}
		prev = tr
	}
}

func TestIntegrateTransmittance_Converges(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)
	r, mu := geom.GroundRadius+500, 0.05

	reference := IntegrateTransmittance(r, mu, params, geom, 4096)
	prevErr := math.Inf(1)
	for _, steps := range []int{8, 32, 128, 512} {
		tr := IntegrateTransmittance(r, mu, params, geom, steps)
		var worst float64
		for c := range tr {
			if tr[c] < 0 {
				t.Fatalf("steps=%d: channel %d negative", steps, c)
			}
			worst = max(worst, math.Abs(tr[c]-reference[c]))
		}
		if worst > prevErr {
			t.Errorf("steps=%d: error %v did not shrink from %v", steps, worst, prevErr)
		}
		prevErr = worst
	}
	if prevErr > 1e-4 {
		t.Errorf("error at 512 steps = %v, want < 1e-4", prevErr)
	}
}

func TestIntegrateTransmittance_DefaultSteps(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)

	got := IntegrateTransmittance(geom.GroundRadius+100, 0.2, params, geom, 0)
	want := IntegrateTransmittance(geom.GroundRadius+100, 0.2, params, geom, DefaultTransmittanceSteps)
	if got != want {
		t.Errorf("steps=0 gave %v, want default-step result %v", got, want)
	}
}

func TestTransmittanceToSun_GroundOcclusion(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)

	tests := []struct {
		name   string
		r, muS float64
	}{
		{"sun straight below at ground", geom.GroundRadius, -1},
		{"sun below horizon at ground", geom.GroundRadius, -0.2},
		{"sun straight below at altitude", geom.GroundRadius + 30000, -1},
		{"sun straight below at top", geom.TopRadius, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tr := TransmittanceToSun(tt.r, tt.muS, params, geom, 64); tr != (RGB{}) {
				t.Errorf("transmittance = %v, want zero", tr)
			}
			if e := ComputeDirectIrradiance(tt.r, tt.muS, params, geom, 64); e != (RGB{}) {
				t.Errorf("irradiance = %v, want zero", e)
			}
		})
	}
}

func TestTransmittanceToSun_MatchesViewTransmittanceWhenVisible(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)

	r, muS := geom.GroundRadius+2000, 0.3
	if got, want := TransmittanceToSun(r, muS, params, geom, 64), IntegrateTransmittance(r, muS, params, geom, 64); got != want {
		t.Errorf("TransmittanceToSun = %v, want %v", got, want)
	}
}

func TestTransmittanceToSun_ZeroLengthIsZero(t *testing.T) {
	params := EarthParams()
	geom := NewPlanetGeom(params)

	if tr := TransmittanceToSun(geom.TopRadius, 1, params, geom, 64); tr != (RGB{}) {
		t.Errorf("transmittance = %v, want zero", tr)
	}
}
