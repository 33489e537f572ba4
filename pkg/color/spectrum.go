// Package color implements the renderer's tristimulus RGB Spectrum —
// the engine is explicitly not spectral (spec.md §1 Non-goals).
package color

import "math"

// Spectrum is a linear RGB radiance/reflectance value.
type Spectrum struct {
	R, G, B float64
}

// Black is the zero spectrum.
var Black = Spectrum{}

// White is unit reflectance/radiance.
var White = Spectrum{R: 1, G: 1, B: 1}

// New constructs a Spectrum from components.
func New(r, g, b float64) Spectrum { return Spectrum{R: r, G: g, B: b} }

// Gray constructs an achromatic Spectrum.
func Gray(v float64) Spectrum { return Spectrum{R: v, G: v, B: v} }

// Add returns the sum of two spectra.
func (s Spectrum) Add(o Spectrum) Spectrum { return Spectrum{s.R + o.R, s.G + o.G, s.B + o.B} }

// Sub returns the difference of two spectra.
func (s Spectrum) Sub(o Spectrum) Spectrum { return Spectrum{s.R - o.R, s.G - o.G, s.B - o.B} }

// Mul returns the component-wise product of two spectra.
func (s Spectrum) Mul(o Spectrum) Spectrum { return Spectrum{s.R * o.R, s.G * o.G, s.B * o.B} }

// Scale returns the spectrum scaled by a scalar.
func (s Spectrum) Scale(f float64) Spectrum { return Spectrum{s.R * f, s.G * f, s.B * f} }

// Div returns the component-wise quotient, treating division by a
// near-zero channel as zero rather than propagating Inf/NaN.
func (s Spectrum) Div(o Spectrum) Spectrum {
	div := func(a, b float64) float64 {
		if math.Abs(b) < 1e-12 {
			return 0
		}
		return a / b
	}
	return Spectrum{div(s.R, o.R), div(s.G, o.G), div(s.B, o.B)}
}

// MaxChannel returns the largest of the three channels, used for
// Russian-roulette termination throughput (spec.md §4.3).
func (s Spectrum) MaxChannel() float64 {
	return math.Max(s.R, math.Max(s.G, s.B))
}

// Luminance approximates perceptual brightness with Rec. 709 weights.
func (s Spectrum) Luminance() float64 {
	return 0.2126*s.R + 0.7152*s.G + 0.0722*s.B
}

// IsBlack reports whether every channel is (near) zero.
func (s Spectrum) IsBlack() bool {
	const eps = 1e-12
	return math.Abs(s.R) < eps && math.Abs(s.G) < eps && math.Abs(s.B) < eps
}

// Clamp restricts every channel to [lo, hi].
func (s Spectrum) Clamp(lo, hi float64) Spectrum {
	clamp := func(v float64) float64 { return math.Max(lo, math.Min(hi, v)) }
	return Spectrum{clamp(s.R), clamp(s.G), clamp(s.B)}
}

// Lerp linearly interpolates between s and o by t in [0,1].
func (s Spectrum) Lerp(o Spectrum, t float64) Spectrum {
	return s.Scale(1 - t).Add(o.Scale(t))
}

// Exp applies exp() channel-wise, used for Beer-Lambert transmittance.
func Exp(s Spectrum) Spectrum {
	return Spectrum{math.Exp(s.R), math.Exp(s.G), math.Exp(s.B)}
}
