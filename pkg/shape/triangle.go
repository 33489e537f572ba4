package shape

import (
	"math"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/val"
	"github.com/df07/photontrace/pkg/vmath"
)

// Triangle is a flat triangle given by three vertices.
type Triangle struct {
	A, B, C vmath.Point
	normal  vmath.Normal
}

// NewTriangle constructs a Triangle, rejecting duplicate or collinear
// vertices (spec.md §3 invariant).
func NewTriangle(a, b, c vmath.Point) (*Triangle, error) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	if e1.IsZero() || e2.IsZero() || b.Sub(c).IsZero() {
		return nil, newError(ErrInvalidGeometry, "triangle: vertices must be distinct")
	}
	cross := e1.Cross(e2)
	n, ok := cross.Normalize()
	if !ok {
		return nil, newError(ErrInvalidGeometry, "triangle: vertices must not be collinear")
	}
	return &Triangle{A: a, B: b, C: c, normal: n}, nil
}

func (t *Triangle) Kind() Kind { return KindTriangle }

// intersect performs Möller–Trumbore, returning (distance, u, v, ok).
func (t *Triangle) intersect(r ray.Ray, rng ray.Range) (float64, float64, float64, bool) {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	d := r.Direction.Vector()
	pvec := d.Cross(e2)
	det := e1.Dot(pvec)
	if val.Of(det).IsZero() {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det
	tvec := r.Start.Sub(t.A)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	qvec := tvec.Cross(e1)
	v := d.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	dist := e2.Dot(qvec) * invDet
	if !rng.Contains(vmath.Distance(dist)) {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

func (t *Triangle) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	dist, _, _, ok := t.intersect(r, rng)
	if !ok {
		return ray.Part{}, false
	}
	return ray.Part{Distance: vmath.Distance(dist), Ray: r}, true
}

func (t *Triangle) CompletePart(p ray.Part) ray.Intersection {
	pos := p.Ray.At(p.Distance)
	side := ray.Front
	normal := t.normal
	if p.Ray.Direction.Dot(t.normal.Vector()) > 0 {
		side = ray.Back
		normal = t.normal.Negate()
	}
	return ray.Intersection{Distance: p.Distance, Position: pos, Normal: normal, Side: side}
}

func (t *Triangle) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	h, ok := Hit(t, r, rng)
	if !ok {
		return nil
	}
	return []ray.Intersection{h}
}

func (t *Triangle) Area() vmath.Area {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	return vmath.Area(0.5 * e1.Cross(e2).Length())
}

func (t *Triangle) BoundingBox() (BoundingBox, bool) {
	return FromPoints(t.A, t.B, t.C), true
}

// Normal returns the triangle's geometric (front-face) normal.
func (t *Triangle) Normal() vmath.Normal { return t.normal }

// SamplePoint draws a uniform point via the standard sqrt-u barycentric
// trick, given two canonical [0,1) random numbers.
func (t *Triangle) SamplePoint(u, v float64) vmath.Point {
	su := math.Sqrt(u)
	b0 := 1 - su
	b1 := v * su
	b2 := 1 - b0 - b1
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	return t.A.Translate(e1.Scale(b1)).Translate(e2.Scale(b2))
}
