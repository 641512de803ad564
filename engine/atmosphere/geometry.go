package atmosphere

import "math"

// PlanetGeom holds the two shell radii used by every integrator call during a bake.
type PlanetGeom struct {
	GroundRadius float64
	TopRadius    float64
}

// NewPlanetGeom derives the shell radii from the bake parameters.
//
// Parameters:
//   - params: the atmosphere parameters
//
// Returns:
//   - PlanetGeom: ground and top-of-atmosphere radii
func NewPlanetGeom(params AtmosParams) PlanetGeom {
	return PlanetGeom{
		GroundRadius: params.GroundRadius,
		TopRadius:    params.TopRadius(),
	}
}

// Altitude returns the non-negative height of radial distance r above the ground sphere.
func (g PlanetGeom) Altitude(r float64) float64 {
	return max(0, r-g.GroundRadius)
}

// RaySphereIntersect solves t² + 2·r0·mu·t + (r0²−R²) = 0 for a ray starting at radial
// distance r0 whose direction makes cosine mu with the outward radial vector.
//
// Parameters:
//   - r0: the radial distance of the ray origin
//   - mu: the cosine between the ray direction and the local up vector
//   - radius: the sphere radius
//
// Returns:
//   - bool: false if the ray misses the sphere
//   - float64: the nearer root t0
//   - float64: the farther root t1 (t0 <= t1)
func RaySphereIntersect(r0, mu, radius float64) (bool, float64, float64) {
	b := r0 * mu
	disc := b*b - (r0*r0 - radius*radius)
	if disc < 0 {
		return false, 0, 0
	}
	s := math.Sqrt(disc)
	return true, -b - s, -b + s
}

// PathLengthToBoundary returns the distance from a point inside the atmosphere shell to where
// the ray leaves it, either through the top-of-atmosphere sphere or onto the ground.
//
// The same policy serves view rays, where a ground hit just bounds the integration, and sun
// rays (groundOccludes set), where the caller must treat a ground hit as full occlusion. The
// flag does not change the boundary itself. Origins that rounding placed just below the
// ground are lifted onto it.
//
// Parameters:
//   - r0: the radial distance of the ray origin, in [GroundRadius, TopRadius]
//   - mu: the cosine between the ray direction and the local up vector
//   - geom: the planet shell
//   - groundOccludes: true when the ray is a sun ray
//
// Returns:
//   - float64: the path length, clamped to >= 0
//   - bool: true if the path ends on the ground
func PathLengthToBoundary(r0, mu float64, geom PlanetGeom, groundOccludes bool) (float64, bool) {
	r0 = max(r0, geom.GroundRadius)

	if mu < 0 {
		if hit, t0, _ := RaySphereIntersect(r0, mu, geom.GroundRadius); hit && t0 >= 0 {
			return max(t0, 0), true
		}
	}

	hit, _, t1 := RaySphereIntersect(r0, mu, geom.TopRadius)
	if !hit || t1 <= 0 {
		return 0, false
	}
	return t1, false
}
