// Package shape implements the renderer's geometric primitives and
// their ray-intersection contracts (spec.md §4.2). Each primitive
// implements the Shape interface; Kind() lets callers that need to
// pattern-match (material mixing rules, mesh triangulation, BVH
// clustering) do so without a type assertion per site.
package shape

import (
	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/val"
	"github.com/df07/photontrace/pkg/vmath"
)

// Kind tags which concrete primitive a Shape value is.
type Kind int

const (
	KindAABB Kind = iota
	KindPlane
	KindPolygon
	KindSphere
	KindTriangle
	KindMeshTriangle
	KindMeshPolygon
	KindInstance
)

// Shape is the common contract for all geometric primitives.
type Shape interface {
	Kind() Kind

	// HitPart returns the nearest hit distance within rng, without
	// computing the full Intersection (normal, side). pkg/bvh calls Hit
	// per candidate, so a candidate that hits within the current best
	// range is completed even if a nearer one is found later.
	HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool)

	// CompletePart finishes a Part into a full Intersection.
	CompletePart(p ray.Part) ray.Intersection

	// HitAll returns every intersection along the ray within rng,
	// sorted by increasing distance. Needed by the volume scene's
	// interval decomposition.
	HitAll(r ray.Ray, rng ray.Range) []ray.Intersection

	// Area returns the surface area, used by point/light/photon
	// sampling weight computation.
	Area() vmath.Area

	// BoundingBox returns the shape's AABB, or ok=false if unbounded
	// (only Plane is unbounded).
	BoundingBox() (BoundingBox, bool)
}

// Hit is a convenience that performs HitPart then CompletePart.
func Hit(s Shape, r ray.Ray, rng ray.Range) (ray.Intersection, bool) {
	part, ok := s.HitPart(r, rng)
	if !ok {
		return ray.Intersection{}, false
	}
	return s.CompletePart(part), true
}

// ErrorKind tags the construction-time failure modes from spec.md §7.
// Aliased onto buildutil.Kind so shape, material, medium, and mesh
// builders all share one error type.
type ErrorKind = buildutil.Kind

const (
	ErrInvalidGeometry         = buildutil.InvalidGeometry
	ErrInvalidParameter        = buildutil.InvalidParameter
	ErrInvalidMesh             = buildutil.InvalidMesh
	ErrInvalidMixedComposition = buildutil.InvalidMixedComposition
	ErrInvalidConfiguration    = buildutil.InvalidConfiguration
)

// Error is the local, non-panicking construction error used by shape,
// material, medium, and mesh builders.
type Error = buildutil.Error

func newError(kind ErrorKind, msg string) *Error {
	return buildutil.New(kind, msg)
}

// nearlyEqual reports whether two scalars coincide within val.Epsilon.
func nearlyEqual(a, b float64) bool {
	return val.Of(a).Eq(val.Of(b))
}
