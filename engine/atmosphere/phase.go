package atmosphere

import "math"

// RayleighPhase is the Rayleigh phase function for the cosine nu between view and sun directions.
func RayleighPhase(nu float64) float64 {
	return 3.0 / (16.0 * math.Pi) * (1 + nu*nu)
}

// MiePhase is the Cornette-Shanks phase function with asymmetry g.
// The scattering table stores Mie without phase; renderers apply this at sample time.
func MiePhase(nu, g float64) float64 {
	k := 3.0 / (8.0 * math.Pi) * (1 - g*g) / (2 + g*g)
	return k * (1 + nu*nu) / math.Pow(1+g*g-2*g*nu, 1.5)
}
