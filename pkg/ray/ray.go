// Package ray defines the renderer's ray and intersection records,
// including the lazy "part" intersection that carries only a hit
// distance until it is completed into a full record.
package ray

import "github.com/df07/photontrace/pkg/vmath"

// Ray is a half-line starting at Start heading along Direction.
type Ray struct {
	Start     vmath.Point
	Direction vmath.Direction
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t vmath.Distance) vmath.Point {
	return r.Start.Translate(r.Direction.Scale(t.Float()))
}

// Side identifies which face of a surface a ray hit.
type Side int

const (
	// Front means the ray approached from the side the normal points to.
	Front Side = iota
	// Back means the ray approached from behind the normal.
	Back
)

// Intersection is a completed ray-surface hit record.
type Intersection struct {
	Distance vmath.Distance
	Position vmath.Point
	Normal   vmath.Normal
	Side     Side
}

// Part is a lazy intersection: only the hit distance is known. A
// shape's HitPart returns one and its CompletePart turns it into a full
// Intersection. pkg/bvh completes every candidate that hits within the
// current best range, not only the final winner.
type Part struct {
	Distance vmath.Distance
	Ray      Ray
}

// Scattering is a volumetric scattering event: a distance and position
// sampled inside a medium, rather than on a surface.
type Scattering struct {
	Distance vmath.Distance
	Position vmath.Point
}

// Segment is a contiguous span of a ray, given as a start distance and
// a length, used by the volume scene's interval decomposition.
type Segment struct {
	Start  vmath.Distance
	Length vmath.Distance
}

// End returns Start+Length.
func (s Segment) End() vmath.Distance { return s.Start + s.Length }

// Range is a half-open or closed distance interval used to bound hit
// search (tMin, tMax equivalents).
type Range struct {
	Min, Max vmath.Distance
}

// Contains reports whether d lies within [r.Min, r.Max].
func (r Range) Contains(d vmath.Distance) bool {
	return d >= r.Min && d <= r.Max
}

// FullRange is the unbounded (0, +inf) search range used by primary rays.
func FullRange() Range {
	return Range{Min: 0, Max: vmath.Distance(1e300)}
}
