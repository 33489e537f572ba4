package sampling

import (
	"math"
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestPowerHeuristicFavorsTheLargerPdf(t *testing.T) {
	if got := PowerHeuristic(1, 0, 1, 1); got != 0 {
		t.Errorf("PowerHeuristic with fPdf=0 = %v, want 0", got)
	}
	w := PowerHeuristic(1, 2, 1, 1)
	if w <= 0.5 || w >= 1 {
		t.Errorf("PowerHeuristic(2,1) = %v, want strictly between 0.5 and 1", w)
	}
}

func TestBalanceHeuristicIsLinear(t *testing.T) {
	if got := BalanceHeuristic(1, 0, 1, 1); got != 0 {
		t.Errorf("BalanceHeuristic with fPdf=0 = %v, want 0", got)
	}
	if got := BalanceHeuristic(1, 1, 1, 1); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("BalanceHeuristic(1,1) = %v, want 0.5", got)
	}
}

func TestWeightedPickRespectsProportions(t *testing.T) {
	w := newWeighted([]float64{1, 3})
	// u=0 should land in the first bucket, u close to 1 in the second.
	if idx, pdf := w.pick(0); idx != 0 || math.Abs(pdf-0.25) > 1e-9 {
		t.Errorf("pick(0) = (%d, %v), want (0, 0.25)", idx, pdf)
	}
	if idx, pdf := w.pick(0.99); idx != 1 || math.Abs(pdf-0.75) > 1e-9 {
		t.Errorf("pick(0.99) = (%d, %v), want (1, 0.75)", idx, pdf)
	}
}

func TestWeightedPickWithNoWeightsFails(t *testing.T) {
	w := newWeighted(nil)
	if idx, pdf := w.pick(0.5); idx != -1 || pdf != 0 {
		t.Errorf("pick with no weights = (%d, %v), want (-1, 0)", idx, pdf)
	}
}

// constantPointSampler is a fixed-point PointSampler stub for testing
// the aggregate samplers without depending on pkg/shape.
type constantPointSampler struct {
	pos    vmath.Point
	normal vmath.Normal
	area   vmath.Area
}

func (c constantPointSampler) SamplePoint(*Rng) PointSample {
	return PointSample{Position: c.pos, Normal: c.normal, Pdf: 1 / float64(c.area)}
}
func (c constantPointSampler) PdfPoint(vmath.Point) float64 { return 1 / float64(c.area) }
func (c constantPointSampler) Area() vmath.Area             { return c.area }

func TestAggregatePointSamplerSumsArea(t *testing.T) {
	a := NewAggregatePointSampler([]PointSampler{
		constantPointSampler{area: 2},
		constantPointSampler{area: 3},
	})
	if got := a.Area(); got != 5 {
		t.Errorf("Area() = %v, want 5", got)
	}
}

func TestAggregateLightSamplerWithNoSamplersFails(t *testing.T) {
	a := NewAggregateLightSampler(nil)
	if _, ok := a.SampleLight(vmath.Point{}, NewRng(1)); ok {
		t.Error("SampleLight with no sub-samplers should fail")
	}
	if got := a.PdfLight(vmath.Point{}, vmath.NewDirection(vmath.UnitVector{Z: 1})); got != 0 {
		t.Errorf("PdfLight with no sub-samplers = %v, want 0", got)
	}
}

// fixedLightSampler always returns the same LightSample.
type fixedLightSampler struct {
	sample LightSample
}

func (f fixedLightSampler) SampleLight(vmath.Point, *Rng) (LightSample, bool) { return f.sample, true }
func (f fixedLightSampler) PdfLight(vmath.Point, vmath.Direction) float64     { return f.sample.Pdf }

func TestAggregateLightSamplerDividesPdfByCount(t *testing.T) {
	sub := fixedLightSampler{sample: LightSample{Pdf: 1}}
	a := NewAggregateLightSampler([]LightSampler{sub, sub})
	s, ok := a.SampleLight(vmath.Point{}, NewRng(1))
	if !ok {
		t.Fatal("SampleLight reported failure")
	}
	if math.Abs(s.Pdf-0.5) > 1e-9 {
		t.Errorf("aggregate pdf = %v, want 0.5", s.Pdf)
	}
	if got := a.PdfLight(vmath.Point{}, vmath.Direction{}); math.Abs(got-1) > 1e-9 {
		t.Errorf("PdfLight sum/count = %v, want 1", got)
	}
}

// fixedPhotonSampler always emits the same power.
type fixedPhotonSampler struct {
	power color.Spectrum
}

func (f fixedPhotonSampler) SamplePhoton(*Rng) PhotonSample { return PhotonSample{Power: f.power} }
func (f fixedPhotonSampler) Power() color.Spectrum          { return f.power }

func TestAggregatePhotonSamplerSumsPower(t *testing.T) {
	a := NewAggregatePhotonSampler([]PhotonSampler{
		fixedPhotonSampler{power: color.Gray(0.5)},
		fixedPhotonSampler{power: color.Gray(0.25)},
	})
	got := a.Power()
	want := color.Gray(0.75)
	if math.Abs(got.R-want.R) > 1e-9 {
		t.Errorf("Power() = %+v, want %+v", got, want)
	}
}

func TestLightSamplerAdapterRejectsBackFacingLight(t *testing.T) {
	points := constantPointSampler{
		pos:    vmath.NewPoint(0, 0, 1),
		normal: vmath.Normal{Z: 1}, // faces away from the origin query point
		area:   1,
	}
	adapter := NewLightSamplerAdapter(points, func(vmath.Point, vmath.Normal, vmath.Direction) color.Spectrum {
		return color.White
	})
	if _, ok := adapter.SampleLight(vmath.Point{}, NewRng(1)); ok {
		t.Error("SampleLight should fail when the light faces away from the query point")
	}
}

func TestLightSamplerAdapterAppliesSolidAngleJacobian(t *testing.T) {
	points := constantPointSampler{
		pos:    vmath.NewPoint(0, 0, 2),
		normal: vmath.Normal{Z: -1}, // faces back toward the origin
		area:   1,
	}
	adapter := NewLightSamplerAdapter(points, func(vmath.Point, vmath.Normal, vmath.Direction) color.Spectrum {
		return color.White
	})
	s, ok := adapter.SampleLight(vmath.Point{}, NewRng(1))
	if !ok {
		t.Fatal("SampleLight reported failure")
	}
	if s.Pdf <= 0 {
		t.Errorf("solid-angle pdf = %v, want > 0", s.Pdf)
	}
	if math.Abs(s.Distance.Float()-2) > 1e-9 {
		t.Errorf("Distance = %v, want 2", s.Distance)
	}
}
