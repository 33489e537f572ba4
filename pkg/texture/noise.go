package texture

import (
	"github.com/aquilax/go-perlin"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Noise is a procedural texture driven by Perlin noise, generalizing
// the teacher's hand-rolled marble/wood procedural textures to use
// go-perlin's gradient-noise generator instead of a bespoke hash table.
type Noise struct {
	gen        *perlin.Perlin
	Scale      float64
	Low, High  color.Spectrum
}

// NewNoise builds a Noise texture. alpha/beta/n follow go-perlin's
// octave-amplitude/frequency-lacunarity/octave-count convention; seed
// selects the permutation table.
func NewNoise(alpha, beta float64, n int32, seed int64, scale float64, low, high color.Spectrum) *Noise {
	return &Noise{
		gen:   perlin.NewPerlin(alpha, beta, n, seed),
		Scale: scale,
		Low:   low,
		High:  high,
	}
}

func (n *Noise) Kind() Kind { return KindNoise }

func (n *Noise) At(p vmath.Point, _, _ float64) color.Spectrum {
	s := n.Scale
	if s == 0 {
		s = 1
	}
	raw := n.gen.Noise3D(p.X*s, p.Y*s, p.Z*s)
	t := (raw + 1) / 2
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return n.Low.Lerp(n.High, t)
}
