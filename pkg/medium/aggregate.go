package medium

import (
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/vmath"
)

// Segment is one interval of a ray lying inside a single medium,
// produced by the volume scene's interval decomposition (spec.md §4.4).
type Segment struct {
	Start  vmath.Point
	Length vmath.Distance
	Medium Medium
}

// AggregateMedium binds a ray to its ordered, non-overlapping segment
// list (spec.md §4.4).
type AggregateMedium struct {
	Segments []Segment
}

func NewAggregateMedium(segments []Segment) *AggregateMedium {
	return &AggregateMedium{Segments: segments}
}

// Transmittance is the product of every segment's own transmittance.
func (a *AggregateMedium) Transmittance() color.Spectrum {
	t := color.White
	for _, seg := range a.Segments {
		t = t.Mul(seg.Medium.Transmittance(seg.Length))
	}
	return t
}

// Shade picks one segment uniformly at random and asks its medium to
// estimate in-scattering along that segment, scaling the result back
// by the segment count (spec.md §4.4).
func (a *AggregateMedium) Shade(dir vmath.Direction, rng *sampling.Rng, lightPoint vmath.Point, lightRadiance color.Spectrum, lightPdf float64) color.Spectrum {
	if len(a.Segments) == 0 {
		return color.Black
	}
	idx := rng.Intn(len(a.Segments))
	seg := a.Segments[idx]
	est := Inscatter(seg, dir, rng, lightPoint, lightRadiance, lightPdf)
	return est.Scale(float64(len(a.Segments)))
}

// Inscatter estimates in-scattered radiance along a single segment
// with a two-term MIS sum over distance sampling (exponential vs.
// equi-angular). Both terms evaluate the phase function toward the
// preselected light point; no direction is drawn from the phase
// function.
func Inscatter(seg Segment, dir vmath.Direction, rng *sampling.Rng, lightPoint vmath.Point, lightRadiance color.Spectrum, lightPdf float64) color.Spectrum {
	m := seg.Medium
	total := color.Black

	// Strategy 1: sample distance exponentially, evaluate toward the
	// preselected light point (light sampling) with MIS weight.
	expSample := SampleExponential(m, seg.Length, rng.Get1D())
	if expSample.Pdf > 0 {
		p := seg.Start.Translate(dir.Scale(expSample.Distance.Float()))
		toLight := lightPoint.Sub(p)
		wi, ok := toLight.Normalize()
		if ok && lightPdf > 0 {
			phase := m.Phase(vmath.NewDirection(dir.Negate()), vmath.NewDirection(wi))
			equiPdf := PdfEquiangular(seg.Start, dir, seg.Length, lightPoint, expSample.Distance)
			w := sampling.PowerHeuristic(1, expSample.Pdf, 1, equiPdf)
			tr := m.Transmittance(expSample.Distance)
			contrib := lightRadiance.Scale(phase * w / (expSample.Pdf * lightPdf))
			total = total.Add(tr.Mul(m.SigmaS()).Mul(contrib))
		}
	}

	// Strategy 2: equi-angular distance sampling around the light
	// point, evaluated toward the same light point (the companion MIS
	// term).
	equiSample := SampleEquiangular(seg.Start, dir, seg.Length, lightPoint, rng.Get1D())
	if equiSample.Pdf > 0 && equiSample.Distance >= 0 && equiSample.Distance.Float() <= seg.Length.Float() {
		p := seg.Start.Translate(dir.Scale(equiSample.Distance.Float()))
		toLight := lightPoint.Sub(p)
		wi, ok := toLight.Normalize()
		if ok && lightPdf > 0 {
			phase := m.Phase(vmath.NewDirection(dir.Negate()), vmath.NewDirection(wi))
			expPdf := PdfExponential(m, seg.Length, equiSample.Distance)
			w := sampling.PowerHeuristic(1, equiSample.Pdf, 1, expPdf)
			tr := m.Transmittance(equiSample.Distance)
			contrib := lightRadiance.Scale(phase * w / (equiSample.Pdf * lightPdf))
			total = total.Add(tr.Mul(m.SigmaS()).Mul(contrib))
		}
	}

	return total
}
