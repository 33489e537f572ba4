package shape

import (
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/vmath"
)

// Instance applies a Sequential transformation to a shared inner
// shape. Hit queries transform the ray by the inverse transform, then
// push the result back through the forward transform (spec.md §4.2).
type Instance struct {
	Inner     Shape
	Transform vmath.Transformation
}

// NewInstance wraps inner with transform.
func NewInstance(inner Shape, transform vmath.Transformation) *Instance {
	return &Instance{Inner: inner, Transform: transform}
}

func (i *Instance) Kind() Kind { return KindInstance }

func (i *Instance) transformRay(r ray.Ray) ray.Ray {
	inv := i.Transform.Inverse()
	return ray.Ray{
		Start:     inv.ApplyPoint(r.Start),
		Direction: vmath.NewDirection(inv.ApplyUnit(r.Direction.UnitVector)),
	}
}

func (i *Instance) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	localRay := i.transformRay(r)
	part, ok := i.Inner.HitPart(localRay, rng)
	if !ok {
		return ray.Part{}, false
	}
	// Distance must be reported in world space; it scales with the
	// instance's scale factor, which we derive from the ray direction
	// length change induced by the inverse transform.
	scale := localRay.Direction.Vector().Length() / r.Direction.Vector().Length()
	if scale == 0 {
		scale = 1
	}
	return ray.Part{Distance: part.Distance.Scale(1 / scale), Ray: r}, true
}

func (i *Instance) CompletePart(p ray.Part) ray.Intersection {
	localRay := i.transformRay(p.Ray)
	localDist := i.localDistance(p, localRay)
	inner := i.Inner.CompletePart(ray.Part{Distance: localDist, Ray: localRay})
	return ray.Intersection{
		Distance: p.Distance,
		Position: i.Transform.ApplyPoint(inner.Position),
		Normal:   i.Transform.ApplyUnit(inner.Normal),
		Side:     inner.Side,
	}
}

// localDistance re-derives the inner shape's local-space hit distance
// for a world-space Part, since Hit/CompletePart may be called with a
// Part produced by HitPart (which already stores the world distance).
func (i *Instance) localDistance(p ray.Part, localRay ray.Ray) vmath.Distance {
	worldPos := p.Ray.At(p.Distance)
	localPos := i.Transform.Inverse().ApplyPoint(worldPos)
	return vmath.Distance(localPos.Sub(localRay.Start).Length())
}

func (i *Instance) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	localRay := i.transformRay(r)
	localHits := i.Inner.HitAll(localRay, rng)
	out := make([]ray.Intersection, len(localHits))
	for idx, h := range localHits {
		out[idx] = ray.Intersection{
			Distance: h.Distance, // approximate: scale corrected below
			Position: i.Transform.ApplyPoint(h.Position),
			Normal:   i.Transform.ApplyUnit(h.Normal),
			Side:     h.Side,
		}
		out[idx].Distance = vmath.Distance(out[idx].Position.Sub(r.Start).Length())
	}
	return out
}

func (i *Instance) Area() vmath.Area {
	// Uniform-scale assumption: area scales with the square of the
	// translation-free transform's effect on a unit vector.
	scale := i.Transform.ApplyVector(vmath.NewVector(1, 0, 0)).Length()
	return i.Inner.Area().Scale(scale)
}

func (i *Instance) BoundingBox() (BoundingBox, bool) {
	inner, ok := i.Inner.BoundingBox()
	if !ok {
		return BoundingBox{}, false
	}
	corners := inner.Corners()
	var transformed [8]vmath.Point
	for idx, c := range corners {
		transformed[idx] = i.Transform.ApplyPoint(c)
	}
	return FromPoints(transformed[:]...), true
}
