package shape

import (
	"math"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/val"
	"github.com/df07/photontrace/pkg/vmath"
)

// Plane is an unbounded flat surface through Point with the given
// Normal. Plane has no BoundingBox (spec.md §3).
type Plane struct {
	Point  vmath.Point
	Normal vmath.Normal
}

// NewPlane constructs a Plane.
func NewPlane(point vmath.Point, normal vmath.Normal) *Plane {
	return &Plane{Point: point, Normal: normal}
}

func (p *Plane) Kind() Kind { return KindPlane }

func (p *Plane) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	denom := r.Direction.Dot(p.Normal.Vector())
	if val.Of(denom).IsZero() {
		return ray.Part{}, false
	}
	t := p.Point.Sub(r.Start).Dot(p.Normal.Vector()) / denom
	if !rng.Contains(vmath.Distance(t)) {
		return ray.Part{}, false
	}
	return ray.Part{Distance: vmath.Distance(t), Ray: r}, true
}

func (p *Plane) CompletePart(part ray.Part) ray.Intersection {
	pos := part.Ray.At(part.Distance)
	side := ray.Front
	normal := p.Normal
	if part.Ray.Direction.Dot(p.Normal.Vector()) > 0 {
		side = ray.Back
		normal = p.Normal.Negate()
	}
	return ray.Intersection{Distance: part.Distance, Position: pos, Normal: normal, Side: side}
}

func (p *Plane) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	h, ok := Hit(p, r, rng)
	if !ok {
		return nil
	}
	return []ray.Intersection{h}
}

// Area is infinite for an unbounded plane; callers must not sample a
// bare Plane as a light or point source.
func (p *Plane) Area() vmath.Area { return vmath.Area(math.Inf(1)) }

func (p *Plane) BoundingBox() (BoundingBox, bool) { return BoundingBox{}, false }
