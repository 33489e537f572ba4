package texture

import (
	"image"
	"math"

	col "github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Image samples a decoded raster image with bilinear-free nearest
// lookup on (u,v) in [0,1]^2, applying the inverse sRGB transfer curve
// on decode per the loader contract (spec.md §6).
type Image struct {
	Img image.Image
}

// NewImage wraps a decoded image (from png, golang.org/x/image/bmp, or
// golang.org/x/image/tiff) as a Texture.
func NewImage(img image.Image) *Image { return &Image{Img: img} }

func (t *Image) Kind() Kind { return KindImage }

func (t *Image) At(_ vmath.Point, u, v float64) col.Spectrum {
	b := t.Img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return col.Black
	}
	x := b.Min.X + clampIndex(int(u*float64(w)), w)
	y := b.Min.Y + clampIndex(int((1-v)*float64(h)), h)
	r, g, bl, _ := t.Img.At(x, y).RGBA()
	return col.Spectrum{
		R: srgbToLinear(float64(r) / 65535),
		G: srgbToLinear(float64(g) / 65535),
		B: srgbToLinear(float64(bl) / 65535),
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// srgbToLinear inverts the 8-bit sRGB transfer curve (spec.md §6:
// "loading images for textures is inverse" of the encode path).
func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the forward transfer curve, used by the PNG/PPM
// encoder when writing the final image.
func LinearToSRGB(c float64) float64 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 1
	}
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}
