package scene

import (
	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/vmath"
)

// shapeSampler adapts a shape.Shape into a sampling.PointSampler,
// dispatching by shape.Kind per spec.md §4.2's per-shape SamplePoint
// algorithms; PdfPoint uses the uniform-over-area approximation valid
// for the flat/convex shapes the renderer draws light samples from.
type shapeSampler struct {
	s shape.Shape
}

func newShapeSampler(s shape.Shape) (*shapeSampler, error) {
	switch s.(type) {
	case *shape.Sphere, *shape.Triangle, *shape.Polygon:
		return &shapeSampler{s: s}, nil
	default:
		return nil, buildutil.New(buildutil.InvalidParameter, "scene: shape kind does not support area sampling")
	}
}

func (ss *shapeSampler) SamplePoint(rng *sampling.Rng) sampling.PointSample {
	u, v := rng.Get2D()
	switch sh := ss.s.(type) {
	case *shape.Sphere:
		p, n := sh.SamplePoint(u, v)
		return sampling.PointSample{Position: p, Normal: n, Pdf: 1 / float64(sh.Area())}
	case *shape.Triangle:
		p := sh.SamplePoint(u, v)
		return sampling.PointSample{Position: p, Normal: sh.Normal(), Pdf: 1 / float64(sh.Area())}
	case *shape.Polygon:
		p := sh.SamplePoint(rng.Get1D(), u, v)
		return sampling.PointSample{Position: p, Normal: sh.Normal(), Pdf: 1 / float64(sh.Area())}
	default:
		return sampling.PointSample{}
	}
}

func (ss *shapeSampler) PdfPoint(vmath.Point) float64 {
	return 1 / float64(ss.s.Area())
}

func (ss *shapeSampler) Area() vmath.Area {
	return ss.s.Area()
}

// emitterPhotonSampler emits photons from an emissive shape, seeded
// uniformly by radiant power times area (spec.md §4.8 step 1).
type emitterPhotonSampler struct {
	points *shapeSampler
	em     material.EmissiveMaterial
}

func (e *emitterPhotonSampler) SamplePhoton(rng *sampling.Rng) sampling.PhotonSample {
	ps := e.points.SamplePoint(rng)
	if ps.Pdf <= 0 {
		return sampling.PhotonSample{}
	}
	local, dirPdf := sampling.CosineHemisphere(rng.Get1D(), rng.Get1D())
	world := sampling.ToBasis(ps.Normal, local)
	dir, ok := world.Normalize()
	if !ok || dirPdf <= 0 {
		return sampling.PhotonSample{}
	}
	power := e.em.Emit(ps.Normal, vmath.NewDirection(dir))
	return sampling.PhotonSample{
		Position:  ps.Position,
		Normal:    ps.Normal,
		Direction: vmath.NewDirection(dir),
		Power:     power,
		Pdf:       ps.Pdf * dirPdf,
	}
}

func (e *emitterPhotonSampler) Power() color.Spectrum {
	return e.em.Emit(vmath.UnitVector{Z: 1}, vmath.NewDirection(vmath.UnitVector{Z: 1})).Scale(float64(e.points.Area()))
}
