// Package sampling implements the renderer's Monte Carlo plumbing: the
// per-worker RNG, MIS weighting, and the point/light/photon sampler
// aggregates of spec.md §4.7, grounded on the teacher's core/sampling.go.
package sampling

import (
	"math"
	"math/rand"

	"github.com/df07/photontrace/pkg/vmath"
)

// Rng is the thread-local generator each render worker owns (spec.md
// §5: "each worker owns a thread-local random generator").
type Rng struct {
	*rand.Rand
}

// NewRng seeds a new Rng. Deterministic single-seed mode is supported
// for the test harness per spec.md §9.
func NewRng(seed int64) *Rng { return &Rng{Rand: rand.New(rand.NewSource(seed))} }

// Get1D returns a uniform sample in [0,1).
func (r *Rng) Get1D() float64 { return r.Float64() }

// Get2D returns a pair of uniform samples in [0,1).
func (r *Rng) Get2D() (float64, float64) { return r.Float64(), r.Float64() }

// CosineHemisphere samples a direction around +Z weighted by cosθ,
// returning the direction and its pdf (cosθ/π).
func CosineHemisphere(u1, u2 float64) (vmath.Vector, float64) {
	r := math.Sqrt(u1)
	phi := 2 * math.Pi * u2
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(math.Max(0, 1-u1))
	return vmath.Vector{X: x, Y: y, Z: z}, z / math.Pi
}

// UniformSphere samples a direction uniformly over the full sphere.
func UniformSphere(u1, u2 float64) vmath.Vector {
	z := 1 - 2*u1
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u2
	return vmath.Vector{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

// ToBasis maps a local-frame vector (around +Z) into the world frame
// defined by the given normal.
func ToBasis(n vmath.UnitVector, local vmath.Vector) vmath.Vector {
	w := n.Vector()
	var a vmath.Vector
	if math.Abs(w.X) > 0.9 {
		a = vmath.Vector{Y: 1}
	} else {
		a = vmath.Vector{X: 1}
	}
	v, _ := w.Cross(a).Normalize()
	u := v.Vector().Cross(w)
	return u.Scale(local.X).Add(v.Vector().Scale(local.Y)).Add(w.Scale(local.Z))
}

// UniformDisk samples a point on the unit disk via concentric mapping.
func UniformDisk(u1, u2 float64) (x, y float64) {
	sx, sy := 2*u1-1, 2*u2-1
	if sx == 0 && sy == 0 {
		return 0, 0
	}
	var r, theta float64
	if math.Abs(sx) > math.Abs(sy) {
		r = sx
		theta = math.Pi / 4 * (sy / sx)
	} else {
		r = sy
		theta = math.Pi/2 - math.Pi/4*(sx/sy)
	}
	return r * math.Cos(theta), r * math.Sin(theta)
}
