// Package material implements the renderer's BSDF/BSSRDF material
// model: 7 concrete kinds plus Mixed composition, grounded on the
// teacher's pkg/material (Scatter/EvaluateBRDF/PDF split kept, but
// generalized from the teacher's Lambertian/Metal/Dielectric trio to
// the full kind set spec.md §4.3 names).
package material

import (
	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Kind tags a material variant.
type Kind int

const (
	KindDiffuse Kind = iota
	KindSpecular
	KindRefractive
	KindGlossy
	KindBlurry
	KindEmissive
	KindScattering
	KindMixed
)

// Category groups kinds for the Mixed per-category uniqueness rule.
type Category int

const (
	CategoryDiffuse Category = iota
	CategoryMicrofacet
	CategoryScattering
	CategorySpecular
	CategoryEmissive
	CategoryMixed
)

func (k Kind) Category() Category {
	switch k {
	case KindDiffuse:
		return CategoryDiffuse
	case KindGlossy, KindBlurry:
		return CategoryMicrofacet
	case KindScattering:
		return CategoryScattering
	case KindSpecular, KindRefractive:
		return CategorySpecular
	case KindEmissive:
		return CategoryEmissive
	default:
		return CategoryMixed
	}
}

// Contract records the per-kind photon-transport behavior from
// spec.md §4.3's table, queried by the renderer rather than hardcoded
// per material type.
type Contract struct {
	SamplesLights     bool
	StoresGlobal      bool
	StoresCausticOnly bool // stores only when the prior bounce was specular
	BouncesPhotonRR   bool
	MarksSpecular     bool
}

// BounceSample is the result of sampling a next direction from a BSDF.
type BounceSample struct {
	Direction   vmath.Direction
	Pdf         float64
	IsSpecular  bool
	Attenuation color.Spectrum
}

// Material is the shared surface behind every concrete material kind.
type Material interface {
	Kind() Kind
	Category() Category
	Contract() Contract
}

// BSDFMaterial is implemented by every non-emissive, non-scattering
// material and drives direct lighting + indirect BSDF sampling.
type BSDFMaterial interface {
	Material
	Bsdf(normal vmath.Normal, wo, wi vmath.Direction) color.Spectrum
	SampleBsdf(normal vmath.Normal, wo vmath.Direction, rng Rng) (BounceSample, bool)
	PdfBsdf(normal vmath.Normal, wo, wi vmath.Direction) float64
}

// EmissiveMaterial is implemented by light-emitting surfaces.
type EmissiveMaterial interface {
	Material
	Emit(normal vmath.Normal, wo vmath.Direction) color.Spectrum
}

// Rng is the minimal random source BSDF sampling needs, satisfied by
// *sampling.Rng. Kept as a narrow interface so BSDF methods don't
// commit callers to the concrete sampling type.
type Rng interface {
	Get1D() float64
	Get2D() (float64, float64)
}

// invalidParam builds the construction error for an out-of-range
// material parameter (spec.md §7 InvalidParameter).
func invalidParam(msg string) error {
	return buildutil.New(buildutil.InvalidParameter, msg)
}

// faceforward flips n so it lies in the same hemisphere as v.
func faceforward(n vmath.Normal, v vmath.Vector) vmath.Normal {
	if n.Vector().Dot(v) < 0 {
		return n.Negate()
	}
	return n
}

// sameHemisphere reports whether two directions are on the same side
// of the surface defined by normal.
func sameHemisphere(normal vmath.Normal, a, b vmath.Direction) bool {
	return (normal.Dot(a.Vector()) > 0) == (normal.Dot(b.Vector()) > 0)
}
