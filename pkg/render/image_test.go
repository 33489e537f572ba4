package render

import (
	"testing"

	"github.com/df07/photontrace/pkg/color"
)

func TestPixelRecordLightIsRunningMean(t *testing.T) {
	var p Pixel
	p.RecordLight(color.New(1, 0, 0))
	p.RecordLight(color.New(0, 1, 0))
	p.RecordLight(color.New(0, 0, 1))

	want := color.New(1.0/3, 1.0/3, 1.0/3)
	got := p.Light
	const eps = 1e-9
	if abs(got.R-want.R) > eps || abs(got.G-want.G) > eps || abs(got.B-want.B) > eps {
		t.Errorf("Light = %+v, want %+v", got, want)
	}
}

func TestObservationRadiusShrinksByPpmAlpha(t *testing.T) {
	var o Observation
	o.Update(1.0, 100, color.New(10, 10, 10))
	r1 := o.Radius
	o.Update(1.0, 100, color.New(10, 10, 10))
	r2 := o.Radius

	if r2 >= r1 {
		t.Errorf("radius did not shrink: %v -> %v", r1, r2)
	}
}

func TestAccumulatorIndexingRoundTrips(t *testing.T) {
	acc := NewAccumulator(Resolution{Width: 17, Height: 13})
	for y := 0; y < 13; y++ {
		for x := 0; x < 17; x++ {
			acc.Image.Set(x, y, color.New(float64(x), float64(y), 0))
		}
	}
	for y := 0; y < 13; y++ {
		for x := 0; x < 17; x++ {
			got := acc.Image.At(x, y)
			if got.R != float64(x) || got.G != float64(y) {
				t.Errorf("At(%d,%d) = %+v", x, y, got)
			}
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
