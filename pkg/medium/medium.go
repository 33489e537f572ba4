// Package medium implements the homogeneous participating media of
// spec.md §4.5: Vacuum, Isotropic, and Henyey-Greenstein, with
// MIS-combined exponential/equi-angular distance sampling. The
// teacher has no volumetric path, so this package is grounded on the
// original source's medium model (per SPEC_FULL.md) while keeping the
// teacher's one-kind-per-file, tagged-Kind idiom from pkg/material.
package medium

import (
	"math"

	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/vmath"
)

// Kind tags a medium variant.
type Kind int

const (
	KindVacuum Kind = iota
	KindIsotropic
	KindHenyeyGreenstein
)

// Medium is the shared behavior of a participating medium.
type Medium interface {
	Kind() Kind
	// SigmaT returns the per-channel extinction coefficient.
	SigmaT() color.Spectrum
	// SigmaS returns the per-channel scattering coefficient.
	SigmaS() color.Spectrum
	// Transmittance over a segment of the given length.
	Transmittance(length vmath.Distance) color.Spectrum
	// SamplePhase draws an outgoing direction given an incoming
	// direction, returning the direction and its pdf.
	SamplePhase(wo vmath.Direction, rng *sampling.Rng) (vmath.Direction, float64)
	// Phase evaluates the phase function for a pair of directions.
	Phase(wo, wi vmath.Direction) float64
}

// Vacuum is the implicit medium outside every boundary; it never
// attenuates or scatters.
type Vacuum struct{}

func (Vacuum) Kind() Kind                                    { return KindVacuum }
func (Vacuum) SigmaT() color.Spectrum                        { return color.Black }
func (Vacuum) SigmaS() color.Spectrum                        { return color.Black }
func (Vacuum) Transmittance(vmath.Distance) color.Spectrum    { return color.White }
func (Vacuum) Phase(vmath.Direction, vmath.Direction) float64 { return 0 }
func (Vacuum) SamplePhase(wo vmath.Direction, _ *sampling.Rng) (vmath.Direction, float64) {
	return wo, 0
}

// homogeneous carries the shared albedo/mean-free-path derived
// extinction used by both Isotropic and Henyey-Greenstein.
type homogeneous struct {
	sigmaT color.Spectrum
	sigmaS color.Spectrum
}

func newHomogeneous(albedo color.Spectrum, meanFreePath float64) (homogeneous, error) {
	if meanFreePath <= 0 {
		return homogeneous{}, buildutil.New(buildutil.InvalidParameter, "medium: mean free path must be > 0")
	}
	sigmaT := color.Gray(1 / meanFreePath)
	sigmaS := sigmaT.Mul(albedo)
	return homogeneous{sigmaT: sigmaT, sigmaS: sigmaS}, nil
}

func (h homogeneous) SigmaT() color.Spectrum { return h.sigmaT }
func (h homogeneous) SigmaS() color.Spectrum { return h.sigmaS }

func (h homogeneous) Transmittance(length vmath.Distance) color.Spectrum {
	l := length.Float()
	return color.Exp(h.sigmaT.Scale(-l))
}

// AverageSigmaT returns ‖σ_t‖/√3, the scalar extinction used by the
// exponential distance-sampling strategy (spec.md §4.5).
func (h homogeneous) AverageSigmaT() float64 {
	return math.Sqrt(h.sigmaT.R*h.sigmaT.R+h.sigmaT.G*h.sigmaT.G+h.sigmaT.B*h.sigmaT.B) / math.Sqrt(3)
}

// Isotropic scatters uniformly in all directions.
type Isotropic struct {
	homogeneous
}

func NewIsotropic(albedo color.Spectrum, meanFreePath float64) (*Isotropic, error) {
	h, err := newHomogeneous(albedo, meanFreePath)
	if err != nil {
		return nil, err
	}
	return &Isotropic{homogeneous: h}, nil
}

func (i *Isotropic) Kind() Kind { return KindIsotropic }

func (i *Isotropic) Phase(vmath.Direction, vmath.Direction) float64 {
	return 1 / (4 * math.Pi)
}

func (i *Isotropic) SamplePhase(_ vmath.Direction, rng *sampling.Rng) (vmath.Direction, float64) {
	u1, u2 := rng.Get2D()
	v := sampling.UniformSphere(u1, u2)
	u, _ := v.Normalize()
	return vmath.NewDirection(u), 1 / (4 * math.Pi)
}

// HenyeyGreenstein is the standard single-lobe anisotropic phase
// function parameterized by g in [-1,1].
type HenyeyGreenstein struct {
	homogeneous
	G float64
}

func NewHenyeyGreenstein(albedo color.Spectrum, meanFreePath, g float64) (*HenyeyGreenstein, error) {
	if g < -1 || g > 1 {
		return nil, buildutil.New(buildutil.InvalidParameter, "medium: g must be in [-1,1]")
	}
	h, err := newHomogeneous(albedo, meanFreePath)
	if err != nil {
		return nil, err
	}
	return &HenyeyGreenstein{homogeneous: h, G: g}, nil
}

func (hg *HenyeyGreenstein) Kind() Kind { return KindHenyeyGreenstein }

func hgPhase(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(math.Max(denom, 1e-9)))
}

func (hg *HenyeyGreenstein) Phase(wo, wi vmath.Direction) float64 {
	cosTheta := wo.Dot(wi.Vector())
	return hgPhase(cosTheta, hg.G)
}

func (hg *HenyeyGreenstein) SamplePhase(wo vmath.Direction, rng *sampling.Rng) (vmath.Direction, float64) {
	u1, u2 := rng.Get2D()
	g := hg.G
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u1
	} else {
		sq := (1 - g*g) / (1 + g - 2*g*u1)
		cosTheta = -(1 + g*g - sq*sq) / (2 * g)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u2
	local := vmath.Vector{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	world := sampling.ToBasis(woAsNormal(wo), local)
	dir, ok := world.Normalize()
	if !ok {
		return wo, 0
	}
	d := vmath.NewDirection(dir)
	return d, hgPhase(cosTheta, g)
}

func woAsNormal(wo vmath.Direction) vmath.Normal {
	return wo.UnitVector
}

// DistanceSample is the result of sampling a scattering distance
// along a ray segment.
type DistanceSample struct {
	Distance vmath.Distance
	Pdf      float64
}

// SampleExponential draws a distance via inverse-CDF on the truncated
// exponential restricted to [0, segmentLength] (spec.md §4.5).
func SampleExponential(m Medium, segmentLength vmath.Distance, u float64) DistanceSample {
	h, ok := m.(interface{ AverageSigmaT() float64 })
	if !ok {
		return DistanceSample{Distance: segmentLength, Pdf: 1}
	}
	sigma := h.AverageSigmaT()
	if sigma <= 0 {
		return DistanceSample{Distance: segmentLength, Pdf: 1}
	}
	maxT := segmentLength.Float()
	norm := 1 - math.Exp(-sigma*maxT)
	t := -math.Log(1-u*norm) / sigma
	pdf := sigma * math.Exp(-sigma*t) / norm
	return DistanceSample{Distance: vmath.Distance(t), Pdf: pdf}
}

// PdfExponential evaluates the exponential strategy's pdf at t.
func PdfExponential(m Medium, segmentLength vmath.Distance, t vmath.Distance) float64 {
	h, ok := m.(interface{ AverageSigmaT() float64 })
	if !ok {
		return 0
	}
	sigma := h.AverageSigmaT()
	if sigma <= 0 {
		return 0
	}
	maxT := segmentLength.Float()
	norm := 1 - math.Exp(-sigma*maxT)
	if norm <= 0 {
		return 0
	}
	return sigma * math.Exp(-sigma*t.Float()) / norm
}

// SampleEquiangular draws a distance uniform in the angle subtended
// from a preselected point D off the ray's line, over [0, segLength]
// (spec.md §4.5).
func SampleEquiangular(rayStart vmath.Point, dir vmath.Direction, segLength vmath.Distance, lightPoint vmath.Point, u float64) DistanceSample {
	delta := lightPoint.Sub(rayStart)
	dC := delta.Dot(dir.Vector())
	dPerp := math.Sqrt(math.Max(0, delta.LengthSquared()-dC*dC))
	if dPerp < 1e-6 {
		dPerp = 1e-6
	}
	thetaA := math.Atan2(0-dC, dPerp)
	thetaB := math.Atan2(segLength.Float()-dC, dPerp)
	theta := thetaA + u*(thetaB-thetaA)
	t := dC + dPerp*math.Tan(theta)
	pdf := dPerp / ((thetaB - thetaA) * (dPerp*dPerp + (t-dC)*(t-dC)))
	return DistanceSample{Distance: vmath.Distance(t), Pdf: pdf}
}

// PdfEquiangular evaluates the equi-angular strategy's pdf at t.
func PdfEquiangular(rayStart vmath.Point, dir vmath.Direction, segLength vmath.Distance, lightPoint vmath.Point, t vmath.Distance) float64 {
	delta := lightPoint.Sub(rayStart)
	dC := delta.Dot(dir.Vector())
	dPerp := math.Sqrt(math.Max(0, delta.LengthSquared()-dC*dC))
	if dPerp < 1e-6 {
		dPerp = 1e-6
	}
	thetaA := math.Atan2(0-dC, dPerp)
	thetaB := math.Atan2(segLength.Float()-dC, dPerp)
	if thetaB == thetaA {
		return 0
	}
	tt := t.Float()
	return dPerp / ((thetaB - thetaA) * (dPerp*dPerp + (tt-dC)*(tt-dC)))
}
