package ray

import (
	"math"
	"testing"

	"github.com/df07/photontrace/pkg/vmath"
)

func TestRayAt(t *testing.T) {
	r := Ray{Start: vmath.NewPoint(1, 2, 3), Direction: vmath.NewDirection(vmath.UnitVector{X: 1})}
	got := r.At(vmath.Distance(5))
	want := vmath.NewPoint(6, 2, 3)
	if got != want {
		t.Errorf("At(5) = %+v, want %+v", got, want)
	}
}

func TestSegmentEnd(t *testing.T) {
	s := Segment{Start: 2, Length: 3}
	if got := s.End(); got != 5 {
		t.Errorf("End() = %v, want 5", got)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 1, Max: 5}
	if !r.Contains(1) || !r.Contains(5) || !r.Contains(3) {
		t.Error("Contains should be true for the closed interval's endpoints and interior")
	}
	if r.Contains(0.999) || r.Contains(5.001) {
		t.Error("Contains should be false just outside the interval")
	}
}

func TestFullRangeIsEffectivelyUnbounded(t *testing.T) {
	r := FullRange()
	if r.Min != 0 {
		t.Errorf("FullRange().Min = %v, want 0", r.Min)
	}
	if r.Max.Float() < math.MaxFloat32 {
		t.Errorf("FullRange().Max = %v, want a very large distance", r.Max)
	}
}
