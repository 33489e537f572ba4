package shape

import (
	"math"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/vmath"
)

// Sphere is a solid sphere primitive.
type Sphere struct {
	Center vmath.Point
	Radius float64
}

// NewSphere constructs a Sphere, rejecting non-positive radii.
func NewSphere(center vmath.Point, radius float64) (*Sphere, error) {
	if radius <= 0 {
		return nil, newError(ErrInvalidGeometry, "sphere: radius must be > 0")
	}
	return &Sphere{Center: center, Radius: radius}, nil
}

func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	oc := r.Start.Sub(s.Center)
	d := r.Direction.Vector()
	a := d.Dot(d)
	halfB := oc.Dot(d)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return ray.Part{}, false
	}
	sqrtD := math.Sqrt(disc)

	root := (-halfB - sqrtD) / a
	if !rng.Contains(vmath.Distance(root)) || root <= rng.Min.Float() {
		root = (-halfB + sqrtD) / a
		if !rng.Contains(vmath.Distance(root)) {
			return ray.Part{}, false
		}
	}
	return ray.Part{Distance: vmath.Distance(root), Ray: r}, true
}

func (s *Sphere) CompletePart(p ray.Part) ray.Intersection {
	pos := p.Ray.At(p.Distance)
	outward, ok := pos.Sub(s.Center).Normalize()
	if !ok {
		outward = vmath.AxisY
	}
	side := ray.Front
	normal := outward
	if p.Ray.Direction.Dot(outward.Vector()) > 0 {
		side = ray.Back
		normal = outward.Negate()
	}
	return ray.Intersection{Distance: p.Distance, Position: pos, Normal: normal, Side: side}
}

func (s *Sphere) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	oc := r.Start.Sub(s.Center)
	d := r.Direction.Vector()
	a := d.Dot(d)
	halfB := oc.Dot(d)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return nil
	}
	sqrtD := math.Sqrt(disc)
	roots := []float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a}
	if sqrtD == 0 {
		roots = roots[:1]
	}

	var hits []ray.Intersection
	for _, root := range roots {
		if !rng.Contains(vmath.Distance(root)) {
			continue
		}
		hits = append(hits, s.CompletePart(ray.Part{Distance: vmath.Distance(root), Ray: r}))
	}
	return hits
}

func (s *Sphere) Area() vmath.Area {
	return vmath.Area(4 * math.Pi * s.Radius * s.Radius)
}

func (s *Sphere) BoundingBox() (BoundingBox, bool) {
	r := s.Radius
	return NewBoundingBox(
		s.Center.Translate(vmath.NewVector(-r, -r, -r)),
		s.Center.Translate(vmath.NewVector(r, r, r)),
	), true
}

// SamplePoint draws a uniform point on the sphere surface from two
// canonical [0,1) random numbers, returning the point and its normal.
func (s *Sphere) SamplePoint(u, v float64) (vmath.Point, vmath.Normal) {
	z := 1 - 2*u
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * v
	n := vmath.UnitVector{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
	return s.Center.Translate(n.Scale(s.Radius)), n
}
