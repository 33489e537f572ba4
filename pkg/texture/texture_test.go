package texture

import (
	"image"
	"image/color"
	"math"
	"testing"

	spectrum "github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestConstantAtReturnsItsValueEverywhere(t *testing.T) {
	c := NewConstant(spectrum.New(0.2, 0.4, 0.6))
	got := c.At(vmath.Point{X: 100, Y: -5, Z: 3}, 0.3, 0.7)
	if got != c.Value {
		t.Errorf("Constant.At = %+v, want %+v", got, c.Value)
	}
	if c.Kind() != KindConstant {
		t.Errorf("Kind = %v, want KindConstant", c.Kind())
	}
}

func TestCheckerAlternatesByLatticeCell(t *testing.T) {
	odd := NewConstant(spectrum.New(1, 0, 0))
	even := NewConstant(spectrum.New(0, 0, 1))
	c := NewChecker(odd, even, 1)

	if got := c.At(vmath.Point{X: 0, Y: 0, Z: 0}, 0, 0); got != even.Value {
		t.Errorf("At(0,0,0) = %+v, want even %+v", got, even.Value)
	}
	if got := c.At(vmath.Point{X: 1, Y: 0, Z: 0}, 0, 0); got != odd.Value {
		t.Errorf("At(1,0,0) = %+v, want odd %+v", got, odd.Value)
	}
}

func TestCheckerDefaultsScaleWhenZero(t *testing.T) {
	odd := NewConstant(spectrum.New(1, 0, 0))
	even := NewConstant(spectrum.New(0, 0, 1))
	c := NewChecker(odd, even, 0)
	// scale 0 should behave like scale 1, not divide by zero.
	got := c.At(vmath.Point{X: 1, Y: 0, Z: 0}, 0, 0)
	if got != odd.Value {
		t.Errorf("At(1,0,0) with zero scale = %+v, want odd %+v", got, odd.Value)
	}
}

func TestPaletteInterpolatesBetweenStops(t *testing.T) {
	p := NewPalette(
		[]float64{0, 1},
		[]spectrum.Spectrum{spectrum.New(0, 0, 0), spectrum.New(1, 1, 1)},
		func(pt vmath.Point) float64 { return pt.X },
	)
	mid := p.At(vmath.Point{X: 0.5}, 0, 0)
	if math.Abs(mid.R-0.5) > 1e-9 {
		t.Errorf("Palette midpoint R = %v, want 0.5", mid.R)
	}
	below := p.At(vmath.Point{X: -10}, 0, 0)
	if below != (spectrum.Spectrum{}) {
		t.Errorf("Palette below first stop = %+v, want the first color", below)
	}
	above := p.At(vmath.Point{X: 10}, 0, 0)
	if math.Abs(above.R-1) > 1e-9 {
		t.Errorf("Palette above last stop R = %v, want 1", above.R)
	}
}

func TestPaletteWithNoStopsIsBlack(t *testing.T) {
	p := NewPalette(nil, nil, func(vmath.Point) float64 { return 0 })
	if got := p.At(vmath.Point{}, 0, 0); got != spectrum.Black {
		t.Errorf("empty Palette.At = %+v, want black", got)
	}
}

func TestNoiseStaysWithinLowHighRange(t *testing.T) {
	n := NewNoise(2, 2, 3, 1, 0.1, spectrum.New(0, 0, 0), spectrum.New(1, 1, 1))
	if n.Kind() != KindNoise {
		t.Errorf("Kind = %v, want KindNoise", n.Kind())
	}
	for _, p := range []vmath.Point{{X: 0, Y: 0, Z: 0}, {X: 3.2, Y: -1.4, Z: 7.7}, {X: 100, Y: 50, Z: -20}} {
		got := n.At(p, 0, 0)
		if got.R < 0 || got.R > 1 || got.G < 0 || got.G > 1 || got.B < 0 || got.B > 1 {
			t.Errorf("Noise.At(%+v) = %+v, want channels within [0,1]", p, got)
		}
	}
}

func TestImageAtSamplesNearestTexelAndLinearizes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(1, 0, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	tex := NewImage(img)
	if tex.Kind() != KindImage {
		t.Errorf("Kind = %v, want KindImage", tex.Kind())
	}

	got := tex.At(vmath.Point{}, 0, 1)
	if got.R <= got.G {
		t.Errorf("At(u=0,v=1) = %+v, want the red texel to dominate", got)
	}
}

func TestImageAtOnEmptyImageIsBlack(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	tex := NewImage(img)
	if got := tex.At(vmath.Point{}, 0.5, 0.5); got != spectrum.Black {
		t.Errorf("At on an empty image = %+v, want black", got)
	}
}

func TestLinearToSRGBClampsAndRoundTripsNearIdentity(t *testing.T) {
	if got := LinearToSRGB(-1); got != 0 {
		t.Errorf("LinearToSRGB(-1) = %v, want 0", got)
	}
	if got := LinearToSRGB(2); got != 1 {
		t.Errorf("LinearToSRGB(2) = %v, want 1", got)
	}
	mid := LinearToSRGB(0.5)
	back := srgbToLinear(mid)
	if math.Abs(back-0.5) > 1e-6 {
		t.Errorf("round trip through sRGB = %v, want ~0.5", back)
	}
}
