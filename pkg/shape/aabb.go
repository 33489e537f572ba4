package shape

import (
	"math"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/vmath"
)

// BoundingBox is an axis-aligned box: min <= max component-wise.
type BoundingBox struct {
	Min, Max vmath.Point
}

// NewBoundingBox builds a BoundingBox, swapping components so Min<=Max.
func NewBoundingBox(a, b vmath.Point) BoundingBox {
	return BoundingBox{
		Min: vmath.NewPoint(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)),
		Max: vmath.NewPoint(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)),
	}
}

// FromPoints builds the smallest BoundingBox containing all points.
func FromPoints(points ...vmath.Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		bb = bb.Merge(BoundingBox{Min: p, Max: p})
	}
	return bb
}

// Merge returns the component-wise union of two bounding boxes.
func (b BoundingBox) Merge(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: vmath.NewPoint(math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)),
		Max: vmath.NewPoint(math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)),
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() vmath.Point {
	return vmath.NewPoint((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2, (b.Min.Z+b.Max.Z)/2)
}

// Extent returns the per-axis size of the box.
func (b BoundingBox) Extent() vmath.Vector {
	return b.Max.Sub(b.Min)
}

// SurfaceArea returns the box's surface area, used by SAH costing.
func (b BoundingBox) SurfaceArea() float64 {
	e := b.Extent()
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// LongestAxis returns 0/1/2 for the axis with the greatest extent.
func (b BoundingBox) LongestAxis() int {
	e := b.Extent()
	if e.X > e.Y && e.X > e.Z {
		return 0
	}
	if e.Y > e.Z {
		return 1
	}
	return 2
}

// axis returns the value of a point's given axis (0=X,1=Y,2=Z).
func axis(p vmath.Point, a int) float64 {
	switch a {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// TryHit returns the distance to the nearest entry within rng, or
// ok=false if the ray misses the box (or exits the box before rng.Min).
func (b BoundingBox) TryHit(r ray.Ray, rng ray.Range) (vmath.Distance, bool) {
	tMin, tMax := rng.Min.Float(), rng.Max.Float()
	origin := [3]float64{r.Start.X, r.Start.Y, r.Start.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for a := 0; a < 3; a++ {
		if math.Abs(dir[a]) < 1e-12 {
			if origin[a] < lo[a] || origin[a] > hi[a] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / dir[a]
		t1 := (lo[a] - origin[a]) * inv
		t2 := (hi[a] - origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return vmath.Distance(tMin), true
}

// slab returns both the near and far intersection distances of the
// ray with the box (unclamped by rng except for the caller-supplied
// search interval), used by Aabb's own Shape implementation so a ray
// starting inside the box can still report its exit crossing.
func (b BoundingBox) slab(r ray.Ray, rng ray.Range) (near, far float64, ok bool) {
	tMin, tMax := rng.Min.Float(), rng.Max.Float()
	origin := [3]float64{r.Start.X, r.Start.Y, r.Start.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for a := 0; a < 3; a++ {
		if math.Abs(dir[a]) < 1e-12 {
			if origin[a] < lo[a] || origin[a] > hi[a] {
				return 0, 0, false
			}
			continue
		}
		inv := 1.0 / dir[a]
		t1 := (lo[a] - origin[a]) * inv
		t2 := (hi[a] - origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// Corners enumerates the 8 corners of the box, used to transform an
// AABB under an instance's Sequential transformation (spec.md §4.2).
func (b BoundingBox) Corners() [8]vmath.Point {
	var out [8]vmath.Point
	i := 0
	for _, x := range [2]float64{b.Min.X, b.Max.X} {
		for _, y := range [2]float64{b.Min.Y, b.Max.Y} {
			for _, z := range [2]float64{b.Min.Z, b.Max.Z} {
				out[i] = vmath.NewPoint(x, y, z)
				i++
			}
		}
	}
	return out
}

// Aabb is the Shape implementation wrapping a BoundingBox so that
// boxes can themselves be traced (e.g. as a volume boundary or debug
// visualization primitive).
type Aabb struct {
	Box BoundingBox
}

// NewAabb constructs an Aabb shape, rejecting a degenerate box where
// min > max on any axis.
func NewAabb(min, max vmath.Point) (*Aabb, error) {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return nil, newError(ErrInvalidGeometry, "aabb: min must be <= max component-wise")
	}
	return &Aabb{Box: BoundingBox{Min: min, Max: max}}, nil
}

func (a *Aabb) Kind() Kind { return KindAABB }

// HitPart treats the box as solid: from outside, the near crossing is
// reported; from inside, the near crossing lies behind the ray origin
// (or at it) so the far crossing — the exit through the back face —
// is reported instead.
func (a *Aabb) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	near, far, ok := a.Box.slab(r, rng)
	if !ok {
		return ray.Part{}, false
	}
	if rng.Contains(vmath.Distance(near)) && near > rng.Min.Float() {
		return ray.Part{Distance: vmath.Distance(near), Ray: r}, true
	}
	if rng.Contains(vmath.Distance(far)) {
		return ray.Part{Distance: vmath.Distance(far), Ray: r}, true
	}
	return ray.Part{}, false
}

func (a *Aabb) CompletePart(p ray.Part) ray.Intersection {
	pos := p.Ray.At(p.Distance)
	normal := a.normalAt(pos)
	side := ray.Front
	if p.Ray.Direction.Dot(normal.Vector()) > 0 {
		side = ray.Back
	}
	return ray.Intersection{Distance: p.Distance, Position: pos, Normal: normal, Side: side}
}

// normalAt picks the axis-aligned normal for whichever min/max plane
// the position lies closest to.
func (a *Aabb) normalAt(p vmath.Point) vmath.Normal {
	const eps = 1e-6
	switch {
	case math.Abs(p.X-a.Box.Min.X) < eps:
		return vmath.UnitVector{X: -1}
	case math.Abs(p.X-a.Box.Max.X) < eps:
		return vmath.UnitVector{X: 1}
	case math.Abs(p.Y-a.Box.Min.Y) < eps:
		return vmath.UnitVector{Y: -1}
	case math.Abs(p.Y-a.Box.Max.Y) < eps:
		return vmath.UnitVector{Y: 1}
	case math.Abs(p.Z-a.Box.Min.Z) < eps:
		return vmath.UnitVector{Z: -1}
	default:
		return vmath.UnitVector{Z: 1}
	}
}

// HitAll reports both the entry and exit crossings, treating the
// AABB as a hollow shell — used by the volume scene, which needs both
// boundary crossings of a medium's bounding box.
func (a *Aabb) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	near, far, ok := a.Box.slab(r, rng)
	if !ok {
		return nil
	}
	var hits []ray.Intersection
	if rng.Contains(vmath.Distance(near)) {
		hits = append(hits, a.CompletePart(ray.Part{Distance: vmath.Distance(near), Ray: r}))
	}
	if rng.Contains(vmath.Distance(far)) && far != near {
		hits = append(hits, a.CompletePart(ray.Part{Distance: vmath.Distance(far), Ray: r}))
	}
	return hits
}

func (a *Aabb) Area() vmath.Area {
	return vmath.Area(a.Box.SurfaceArea())
}

func (a *Aabb) BoundingBox() (BoundingBox, bool) { return a.Box, true }
