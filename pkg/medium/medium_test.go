package medium

import (
	"math"
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestNewIsotropicRejectsNonPositiveMeanFreePath(t *testing.T) {
	if _, err := NewIsotropic(color.Gray(0.5), 0); err == nil {
		t.Fatal("expected an error for a zero mean free path")
	}
	if _, err := NewIsotropic(color.Gray(0.5), -1); err == nil {
		t.Fatal("expected an error for a negative mean free path")
	}
}

func TestNewHenyeyGreensteinRejectsGOutOfRange(t *testing.T) {
	if _, err := NewHenyeyGreenstein(color.Gray(0.5), 1, 1.5); err == nil {
		t.Fatal("expected an error for g > 1")
	}
	if _, err := NewHenyeyGreenstein(color.Gray(0.5), 1, -1.5); err == nil {
		t.Fatal("expected an error for g < -1")
	}
}

func TestIsotropicPhaseIsUniform(t *testing.T) {
	m, err := NewIsotropic(color.Gray(0.9), 1)
	if err != nil {
		t.Fatalf("NewIsotropic: %v", err)
	}
	wo := vmath.NewDirection(vmath.UnitVector{Z: 1})
	wi := vmath.NewDirection(vmath.UnitVector{X: 1})
	want := 1 / (4 * math.Pi)
	if got := m.Phase(wo, wi); math.Abs(got-want) > 1e-9 {
		t.Errorf("Isotropic.Phase = %v, want %v", got, want)
	}
}

func TestHenyeyGreensteinZeroGMatchesIsotropic(t *testing.T) {
	hg, err := NewHenyeyGreenstein(color.Gray(0.9), 1, 0)
	if err != nil {
		t.Fatalf("NewHenyeyGreenstein: %v", err)
	}
	wo := vmath.NewDirection(vmath.UnitVector{Z: 1})
	wi := vmath.NewDirection(vmath.UnitVector{X: 1})
	want := 1 / (4 * math.Pi)
	if got := hg.Phase(wo, wi); math.Abs(got-want) > 1e-6 {
		t.Errorf("HenyeyGreenstein(g=0).Phase = %v, want %v", got, want)
	}
}

func TestTransmittanceDecaysWithLength(t *testing.T) {
	m, err := NewIsotropic(color.White, 1)
	if err != nil {
		t.Fatalf("NewIsotropic: %v", err)
	}
	near := m.Transmittance(vmath.Distance(0.1))
	far := m.Transmittance(vmath.Distance(5))
	if far.R >= near.R {
		t.Errorf("transmittance did not decay with distance: near=%v far=%v", near, far)
	}
	if v := m.Transmittance(vmath.Distance(0)); math.Abs(v.R-1) > 1e-9 {
		t.Errorf("Transmittance(0) = %v, want 1", v.R)
	}
}

func TestAggregateMediumTransmittanceIsProductOfSegments(t *testing.T) {
	m, _ := NewIsotropic(color.White, 1)
	segs := []Segment{
		{Start: vmath.Point{}, Length: vmath.Distance(1), Medium: m},
		{Start: vmath.Point{Z: 1}, Length: vmath.Distance(2), Medium: m},
	}
	agg := NewAggregateMedium(segs)

	want := m.Transmittance(vmath.Distance(1)).Mul(m.Transmittance(vmath.Distance(2)))
	got := agg.Transmittance()
	if math.Abs(got.R-want.R) > 1e-9 {
		t.Errorf("AggregateMedium.Transmittance = %v, want %v", got, want)
	}
}

func TestAggregateMediumShadeWithNoSegmentsIsBlack(t *testing.T) {
	agg := NewAggregateMedium(nil)
	rng := sampling.NewRng(3)
	got := agg.Shade(vmath.NewDirection(vmath.UnitVector{Z: 1}), rng, vmath.Point{Z: 5}, color.White, 1)
	if !got.IsBlack() {
		t.Errorf("Shade with no segments = %+v, want black", got)
	}
}

func TestSampleExponentialStaysWithinSegment(t *testing.T) {
	m, _ := NewIsotropic(color.White, 1)
	length := vmath.Distance(3)
	for _, u := range []float64{0, 0.25, 0.5, 0.75, 0.999} {
		s := SampleExponential(m, length, u)
		if s.Distance < 0 || s.Distance.Float() > length.Float() {
			t.Errorf("SampleExponential(%v) = %v, want within [0,%v]", u, s.Distance, length)
		}
		if s.Pdf <= 0 {
			t.Errorf("SampleExponential(%v) pdf = %v, want > 0", u, s.Pdf)
		}
	}
}
