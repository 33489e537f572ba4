package material

import (
	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Mixed composes at most one material per non-Mixed category, plus an
// optional Emissive stacked additively, per spec.md §4.2's composition
// rule. It has no teacher precedent (df07's raytracer has no material
// mixing) and is grounded on spec.md §4.2/§7 directly.
type Mixed struct {
	Components []BSDFMaterial
	Weights    []float64
	Emissive   *Emissive
}

// NewMixed validates the "at most one per category, no nested Mixed"
// rule and the two legal "other" shapes spec.md §3 allows once Emissive
// is set aside: a single non-emissive component, or exactly one
// Diffuse + one Microfacet. Any other combination of 2+ categories
// (e.g. Diffuse+Specular, or 3+ categories) is InvalidMixedComposition,
// per the original source's MixedBuilder::build.
func NewMixed(components []BSDFMaterial, weights []float64, emissive *Emissive) (*Mixed, error) {
	if len(components) != len(weights) {
		return nil, buildutil.New(buildutil.InvalidMixedComposition, "mixed: components/weights length mismatch")
	}
	seen := map[Category]bool{}
	for _, c := range components {
		if c.Kind() == KindMixed {
			return nil, buildutil.New(buildutil.InvalidMixedComposition, "mixed: nested Mixed is not allowed")
		}
		if seen[c.Category()] {
			return nil, buildutil.New(buildutil.InvalidMixedComposition, "mixed: multiple components share a category")
		}
		seen[c.Category()] = true
	}
	switch len(seen) {
	case 0, 1:
		// a single non-emissive component (or none) is always legal.
	case 2:
		if !seen[CategoryDiffuse] || !seen[CategoryMicrofacet] {
			return nil, buildutil.New(buildutil.InvalidMixedComposition, "mixed: two-category mix must be exactly Diffuse+Microfacet")
		}
	default:
		return nil, buildutil.New(buildutil.InvalidMixedComposition, "mixed: cannot combine 3 or more non-emissive categories")
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return nil, buildutil.New(buildutil.InvalidMixedComposition, "mixed: weights must sum to a positive value")
	}
	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / sum
	}
	return &Mixed{Components: components, Weights: normalized, Emissive: emissive}, nil
}

func (m *Mixed) Kind() Kind         { return KindMixed }
func (m *Mixed) Category() Category { return CategoryMixed }

func (m *Mixed) Contract() Contract {
	c := Contract{}
	for _, comp := range m.Components {
		cc := comp.Contract()
		c.SamplesLights = c.SamplesLights || cc.SamplesLights
		c.StoresGlobal = c.StoresGlobal || cc.StoresGlobal
		c.StoresCausticOnly = c.StoresCausticOnly || cc.StoresCausticOnly
		c.BouncesPhotonRR = c.BouncesPhotonRR || cc.BouncesPhotonRR
		c.MarksSpecular = c.MarksSpecular || cc.MarksSpecular
	}
	return c
}

func (m *Mixed) Bsdf(normal vmath.Normal, wo, wi vmath.Direction) color.Spectrum {
	sum := color.Black
	for i, c := range m.Components {
		sum = sum.Add(c.Bsdf(normal, wo, wi).Scale(m.Weights[i]))
	}
	return sum
}

func (m *Mixed) SampleBsdf(normal vmath.Normal, wo vmath.Direction, rng Rng) (BounceSample, bool) {
	u := rng.Get1D()
	acc := 0.0
	for i, w := range m.Weights {
		acc += w
		if u < acc {
			bs, ok := m.Components[i].SampleBsdf(normal, wo, rng)
			if !ok {
				return BounceSample{}, false
			}
			bs.Pdf *= w
			return bs, true
		}
	}
	return BounceSample{}, false
}

func (m *Mixed) PdfBsdf(normal vmath.Normal, wo, wi vmath.Direction) float64 {
	sum := 0.0
	for i, c := range m.Components {
		sum += c.PdfBsdf(normal, wo, wi) * m.Weights[i]
	}
	return sum
}

func (m *Mixed) Emit(normal vmath.Normal, wo vmath.Direction) color.Spectrum {
	if m.Emissive == nil {
		return color.Black
	}
	return m.Emissive.Emit(normal, wo)
}
