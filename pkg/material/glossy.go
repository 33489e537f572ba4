package material

import (
	"math"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Glossy is a reflective GGX microfacet material (metal, or a
// dielectric/metal mix), sampled with VNDF importance sampling and
// Schlick Fresnel, generalizing the teacher's Metal's fuzzy reflection
// into a physically-parameterized microfacet lobe (spec.md §4.3).
type Glossy struct {
	R0        color.Spectrum // Schlick normal-incidence reflectance
	Roughness float64
}

// NewGlossy builds a Glossy material from an albedo and metalness,
// using DielectricR0 to derive the Schlick baseline.
func NewGlossy(albedo color.Spectrum, metalness, roughness float64) (*Glossy, error) {
	if metalness < 0 || metalness > 1 {
		return nil, invalidParam("glossy: metalness must be in [0,1]")
	}
	if roughness <= 0 || roughness > 1 {
		return nil, invalidParam("glossy: roughness must be in (0,1]")
	}
	return &Glossy{R0: DielectricR0(albedo, metalness), Roughness: roughness}, nil
}

// NewGlossyMetal builds a Glossy material from one of the 13 named
// metal reflectance constants (spec.md §4.3).
func NewGlossyMetal(name string, roughness float64) (*Glossy, error) {
	r0, ok := MetalR0[name]
	if !ok {
		return nil, invalidParam("glossy: unknown metal name " + name)
	}
	if roughness <= 0 || roughness > 1 {
		return nil, invalidParam("glossy: roughness must be in (0,1]")
	}
	return &Glossy{R0: r0, Roughness: roughness}, nil
}

func (g *Glossy) Kind() Kind         { return KindGlossy }
func (g *Glossy) Category() Category { return CategoryMicrofacet }

func (g *Glossy) Contract() Contract {
	return Contract{SamplesLights: true, BouncesPhotonRR: true}
}

func (g *Glossy) Bsdf(normal vmath.Normal, wo, wi vmath.Direction) color.Spectrum {
	if !sameHemisphere(normal, wo, wi) {
		return color.Black
	}
	loWo := toLocal(normal, wo.Vector())
	loWi := toLocal(normal, wi.Vector())
	hv := loWo.Add(loWi)
	m, ok := hv.Normalize()
	if !ok {
		return color.Black
	}
	alpha := roughnessToAlpha(g.Roughness)
	d := ggxD(m.Vector(), alpha)
	gterm := ggxG2(loWo, loWi, alpha)
	f := SchlickSpectrum(math.Abs(loWo.Dot(m.Vector())), g.R0)
	denom := 4 * math.Abs(loWo.Z) * math.Abs(loWi.Z)
	if denom <= 1e-9 {
		return color.Black
	}
	return f.Scale(d * gterm / denom)
}

func (g *Glossy) SampleBsdf(normal vmath.Normal, wo vmath.Direction, rng Rng) (BounceSample, bool) {
	alpha := roughnessToAlpha(g.Roughness)
	loWo := toLocal(normal, wo.Vector())
	if loWo.Z <= 0 {
		loWo.Z = math.Abs(loWo.Z)
	}
	u1, u2 := rng.Get2D()
	m := sampleGGXVNDF(loWo, alpha, u1, u2)
	loWi := m.Scale(2 * loWo.Dot(m)).Sub(loWo)
	if loWi.Z <= 0 {
		return BounceSample{}, false
	}
	wiWorld := toWorld(normal, loWi)
	wi, ok := wiWorld.Normalize()
	if !ok {
		return BounceSample{}, false
	}
	dir := vmath.NewDirection(wi)
	pdf := g.PdfBsdf(normal, wo, dir)
	if pdf <= 0 {
		return BounceSample{}, false
	}
	return BounceSample{Direction: dir, Pdf: pdf, Attenuation: g.Bsdf(normal, wo, dir)}, true
}

func (g *Glossy) PdfBsdf(normal vmath.Normal, wo, wi vmath.Direction) float64 {
	if !sameHemisphere(normal, wo, wi) {
		return 0
	}
	loWo := toLocal(normal, wo.Vector())
	loWi := toLocal(normal, wi.Vector())
	hv := loWo.Add(loWi)
	m, ok := hv.Normalize()
	if !ok {
		return 0
	}
	alpha := roughnessToAlpha(g.Roughness)
	d := ggxD(m.Vector(), alpha)
	g1 := ggxG1(loWo, alpha)
	denom := 4 * math.Abs(loWo.Z)
	if denom <= 1e-9 {
		return 0
	}
	return d * g1 * math.Abs(loWo.Dot(m.Vector())) / denom
}
