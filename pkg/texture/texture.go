// Package texture implements the spatially-varying inputs to materials:
// constant colors, procedural Perlin noise, named-palette gradients, and
// image lookups, generalizing the teacher's procedural_textures.go.
package texture

import (
	"math"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Kind tags a texture variant.
type Kind int

const (
	KindConstant Kind = iota
	KindChecker
	KindNoise
	KindPalette
	KindImage
)

// Texture evaluates a color at a surface point.
type Texture interface {
	Kind() Kind
	At(p vmath.Point, u, v float64) color.Spectrum
}

// Constant is a uniform texture.
type Constant struct {
	Value color.Spectrum
}

func NewConstant(c color.Spectrum) *Constant { return &Constant{Value: c} }

func (c *Constant) Kind() Kind { return KindConstant }
func (c *Constant) At(vmath.Point, float64, float64) color.Spectrum { return c.Value }

// Checker alternates between two textures on a 3D lattice.
type Checker struct {
	Odd, Even Texture
	Scale     float64
}

func NewChecker(odd, even Texture, scale float64) *Checker {
	return &Checker{Odd: odd, Even: even, Scale: scale}
}

func (c *Checker) Kind() Kind { return KindChecker }

func (c *Checker) At(p vmath.Point, u, v float64) color.Spectrum {
	s := c.Scale
	if s == 0 {
		s = 1
	}
	sum := math.Floor(p.X/s) + math.Floor(p.Y/s) + math.Floor(p.Z/s)
	if int64(sum)%2 == 0 {
		return c.Even.At(p, u, v)
	}
	return c.Odd.At(p, u, v)
}

// Palette is a piecewise color ramp keyed by a scalar in [0,1],
// restored from the original source's palette.rs (spec.md supplement).
type Palette struct {
	Stops  []float64
	Colors []color.Spectrum
	// Key extracts the scalar to look up in the ramp from a world
	// point, e.g. a normalized ray direction's Y component for a sky
	// gradient.
	Key func(p vmath.Point) float64
}

// NewPalette builds a Palette; stops must be ascending and the same
// length as colors.
func NewPalette(stops []float64, colors []color.Spectrum, key func(vmath.Point) float64) *Palette {
	return &Palette{Stops: stops, Colors: colors, Key: key}
}

func (p *Palette) Kind() Kind { return KindPalette }

func (p *Palette) At(pt vmath.Point, u, v float64) color.Spectrum {
	if len(p.Stops) == 0 {
		return color.Black
	}
	k := p.Key(pt)
	if k <= p.Stops[0] {
		return p.Colors[0]
	}
	last := len(p.Stops) - 1
	if k >= p.Stops[last] {
		return p.Colors[last]
	}
	for i := 0; i < last; i++ {
		if k >= p.Stops[i] && k <= p.Stops[i+1] {
			t := (k - p.Stops[i]) / (p.Stops[i+1] - p.Stops[i])
			return p.Colors[i].Lerp(p.Colors[i+1], t)
		}
	}
	return p.Colors[last]
}
