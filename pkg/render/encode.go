package render

import (
	"image"
	"image/color"
	"math"

	spectrum "github.com/df07/photontrace/pkg/color"
)

// ToRGBA converts the accumulator's finalized linear image to an 8-bit
// sRGB-ish image, clamping to [0,1] and gamma-correcting with gamma=2.0
// (the teacher's vec3ToColor).
func (a *Accumulator) ToRGBA() *image.RGBA {
	w, h := a.Image.Resolution.Width, a.Image.Resolution.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, toRGBA(a.Image.At(x, y)))
		}
	}
	return img
}

func toRGBA(s spectrum.Spectrum) color.RGBA {
	gamma := func(v float64) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(255 * math.Sqrt(v))
	}
	return color.RGBA{R: gamma(s.R), G: gamma(s.G), B: gamma(s.B), A: 255}
}
