package material

import (
	"math"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Blurry is a rough dielectric material supporting both microfacet
// reflection and transmission (spec.md §4.3), the microfacet
// generalization of Refractive the same way Glossy generalizes
// Specular.
type Blurry struct {
	IOR       float64
	Roughness float64
	Color     color.Spectrum
}

func NewBlurry(ior, roughness float64, tint color.Spectrum) (*Blurry, error) {
	if ior <= 0 {
		return nil, invalidParam("blurry: ior must be > 0")
	}
	if roughness <= 0 || roughness > 1 {
		return nil, invalidParam("blurry: roughness must be in (0,1]")
	}
	return &Blurry{IOR: ior, Roughness: roughness, Color: tint}, nil
}

func (b *Blurry) Kind() Kind         { return KindBlurry }
func (b *Blurry) Category() Category { return CategoryMicrofacet }

func (b *Blurry) Contract() Contract {
	return Contract{SamplesLights: true, BouncesPhotonRR: true}
}

func (b *Blurry) Bsdf(normal vmath.Normal, wo, wi vmath.Direction) color.Spectrum {
	alpha := roughnessToAlpha(b.Roughness)
	reflect := sameHemisphere(normal, wo, wi)

	loWo := toLocal(normal, wo.Vector())
	loWi := toLocal(normal, wi.Vector())

	if reflect {
		hv := loWo.Add(loWi)
		m, ok := hv.Normalize()
		if !ok {
			return color.Black
		}
		r, _ := FresnelDielectric(math.Abs(loWo.Dot(m.Vector())), b.IOR)
		d := ggxD(m.Vector(), alpha)
		g := ggxG2(loWo, loWi, alpha)
		denom := 4 * math.Abs(loWo.Z) * math.Abs(loWi.Z)
		if denom <= 1e-9 {
			return color.Black
		}
		return b.Color.Scale(r * d * g / denom)
	}

	eta := b.IOR
	if loWo.Z < 0 {
		eta = 1 / b.IOR
	}
	hv := loWo.Scale(eta).Add(loWi).Negate()
	m, ok := hv.Normalize()
	if !ok {
		return color.Black
	}
	if m.Z < 0 {
		m = m.Negate()
	}
	r, tir := FresnelDielectric(math.Abs(loWo.Dot(m.Vector())), b.IOR)
	if tir {
		return color.Black
	}
	d := ggxD(m.Vector(), alpha)
	g := ggxG2(loWo, loWi, alpha)
	denomSqrt := loWo.Dot(m.Vector()) + eta*loWi.Dot(m.Vector())
	denom := denomSqrt * denomSqrt * math.Abs(loWo.Z) * math.Abs(loWi.Z)
	if math.Abs(denom) <= 1e-9 {
		return color.Black
	}
	return b.Color.Scale((1 - r) * d * g * math.Abs(loWi.Dot(m.Vector())) * math.Abs(loWo.Dot(m.Vector())) / math.Abs(denom))
}

func (b *Blurry) SampleBsdf(normal vmath.Normal, wo vmath.Direction, rng Rng) (BounceSample, bool) {
	alpha := roughnessToAlpha(b.Roughness)
	loWo := toLocal(normal, wo.Vector())
	flip := loWo.Z < 0
	if flip {
		loWo = vmath.Vector{X: loWo.X, Y: loWo.Y, Z: -loWo.Z}
	}
	u1, u2 := rng.Get2D()
	m := sampleGGXVNDF(loWo, alpha, u1, u2)

	eta := b.IOR
	cosIM := loWo.Dot(m)
	r, tir := FresnelDielectric(cosIM, eta)
	if tir || rng.Get1D() < r {
		loWi := m.Scale(2 * cosIM).Sub(loWo)
		if loWi.Z <= 0 {
			return BounceSample{}, false
		}
		if flip {
			loWi.Z = -loWi.Z
		}
		wiWorld := toWorld(normal, loWi)
		wi, ok := wiWorld.Normalize()
		if !ok {
			return BounceSample{}, false
		}
		dir := vmath.NewDirection(wi)
		return BounceSample{Direction: dir, Pdf: r, Attenuation: b.Bsdf(normal, wo, dir).Scale(1 / math.Max(r, 1e-6))}, true
	}

	refr, ok := refract(loWo, vmath.UnitVector{Z: 1}, 1/eta)
	if !ok {
		return BounceSample{}, false
	}
	loWi, ok := refr.Normalize()
	if !ok {
		return BounceSample{}, false
	}
	loWiV := loWi.Vector()
	if flip {
		loWiV.Z = -loWiV.Z
	}
	wiWorld := toWorld(normal, loWiV)
	wi, ok := wiWorld.Normalize()
	if !ok {
		return BounceSample{}, false
	}
	dir := vmath.NewDirection(wi)
	pt := 1 - r
	return BounceSample{Direction: dir, Pdf: pt, Attenuation: b.Bsdf(normal, wo, dir).Scale(1 / math.Max(pt, 1e-6))}, true
}

func (b *Blurry) PdfBsdf(normal vmath.Normal, wo, wi vmath.Direction) float64 {
	alpha := roughnessToAlpha(b.Roughness)
	loWo := toLocal(normal, wo.Vector())
	loWi := toLocal(normal, wi.Vector())
	hv := loWo.Add(loWi)
	m, ok := hv.Normalize()
	if !ok {
		return 0
	}
	d := ggxD(m.Vector(), alpha)
	g1 := ggxG1(loWo, alpha)
	denom := 4 * math.Abs(loWo.Z)
	if denom <= 1e-9 {
		return 0
	}
	return d * g1 * math.Abs(loWo.Dot(m.Vector())) / denom
}
