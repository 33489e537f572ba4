package volume

import (
	"math/rand"
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/medium"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/vmath"
)

func mustAabb(t *testing.T, min, max vmath.Point) *shape.Aabb {
	t.Helper()
	a, err := shape.NewAabb(min, max)
	if err != nil {
		t.Fatalf("NewAabb: %v", err)
	}
	return a
}

// TestFindSegmentsNestedMedia mirrors the nested-Aabb volume scenario:
// outer box A contains boxes B and C side by side along x. A ray
// along +x should cross A, B, A, C, A in order.
func TestFindSegmentsNestedMedia(t *testing.T) {
	mediumA, err := medium.NewIsotropic(color.New(0.9, 0.9, 0.9), 1.0)
	if err != nil {
		t.Fatalf("NewIsotropic: %v", err)
	}
	mediumB, err := medium.NewIsotropic(color.New(0.5, 0.5, 0.9), 1.0)
	if err != nil {
		t.Fatalf("NewIsotropic: %v", err)
	}
	mediumC, err := medium.NewIsotropic(color.New(0.9, 0.5, 0.5), 1.0)
	if err != nil {
		t.Fatalf("NewIsotropic: %v", err)
	}

	outer := mustAabb(t, vmath.NewPoint(0, -1, -1), vmath.NewPoint(10, 2, 2))
	inner1 := mustAabb(t, vmath.NewPoint(1, 0, 0), vmath.NewPoint(4, 1, 1))
	inner2 := mustAabb(t, vmath.NewPoint(5, 0, 0), vmath.NewPoint(9, 1, 1))

	boundaries := []Boundary{
		{Shape: outer, Medium: mediumA},
		{Shape: inner1, Medium: mediumB},
		{Shape: inner2, Medium: mediumC},
	}
	rng := rand.New(rand.NewSource(1))
	s := Build(boundaries, rng)

	check := func(start vmath.Point, wantLengths []float64) {
		t.Helper()
		dir := vmath.NewDirection(vmath.UnitVector{X: 1})
		r := ray.Ray{Start: start, Direction: dir}
		segs := s.FindSegments(r, ray.FullRange())
		if len(segs) != len(wantLengths) {
			t.Fatalf("from %v: got %d segments, want %d: %+v", start, len(segs), len(wantLengths), segs)
		}
		for i, want := range wantLengths {
			got := segs[i].Length.Float()
			if got < want-1e-6 || got > want+1e-6 {
				t.Errorf("segment %d: length %v, want %v", i, got, want)
			}
		}
	}

	check(vmath.NewPoint(-0.5, 0.5, 0.5), []float64{1, 3, 1, 4, 1})
	check(vmath.NewPoint(0.1, 0.5, 0.5), []float64{0.9, 3, 1, 4, 1})
}

// TestAggregateMediumTransmittanceIsProduct checks the spec invariant
// that an AggregateMedium's transmittance over the full range equals
// the product of per-segment transmittances.
func TestAggregateMediumTransmittanceIsProduct(t *testing.T) {
	m1, err := medium.NewIsotropic(color.New(0.8, 0.2, 0.2), 2.0)
	if err != nil {
		t.Fatalf("NewIsotropic: %v", err)
	}
	m2, err := medium.NewIsotropic(color.New(0.2, 0.8, 0.2), 1.0)
	if err != nil {
		t.Fatalf("NewIsotropic: %v", err)
	}
	origin := vmath.NewPoint(0, 0, 0)
	segs := []medium.Segment{
		{Start: origin, Length: 2, Medium: m1},
		{Start: origin, Length: 3, Medium: m2},
	}
	agg := medium.NewAggregateMedium(segs)

	want := m1.Transmittance(2).Mul(m2.Transmittance(3))
	got := agg.Transmittance()
	if !closeSpectrum(got, want) {
		t.Errorf("transmittance = %+v, want %+v", got, want)
	}
}

func closeSpectrum(a, b color.Spectrum) bool {
	const eps = 1e-9
	return absf(a.R-b.R) < eps && absf(a.G-b.G) < eps && absf(a.B-b.B) < eps
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
