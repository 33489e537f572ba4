package material

import (
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

// Specular is a perfect-mirror BSDF, the direct generalization of the
// teacher's Metal with Fuzzness forced to zero (fuzzy reflection lives
// in Glossy, which models the full GGX microfacet lobe).
type Specular struct {
	Albedo texture.Texture
}

func NewSpecular(albedo texture.Texture) *Specular { return &Specular{Albedo: albedo} }

func (s *Specular) Kind() Kind         { return KindSpecular }
func (s *Specular) Category() Category { return CategorySpecular }

func (s *Specular) Contract() Contract {
	return Contract{BouncesPhotonRR: true, MarksSpecular: true}
}

// Bsdf is a delta function and is never evaluated at arbitrary
// (wo, wi) pairs; direct lighting skips Specular materials entirely.
func (s *Specular) Bsdf(vmath.Normal, vmath.Direction, vmath.Direction) color.Spectrum {
	return color.Black
}

func (s *Specular) SampleBsdf(normal vmath.Normal, wo vmath.Direction, rng Rng) (BounceSample, bool) {
	reflected := wo.Negate().Reflect(normal)
	if normal.Dot(reflected.Vector()) <= 0 {
		return BounceSample{}, false
	}
	return BounceSample{
		Direction:   vmath.NewDirection(reflected),
		Pdf:         1,
		IsSpecular:  true,
		Attenuation: albedoAt(s.Albedo, vmath.Point{}),
	}, true
}

func (s *Specular) PdfBsdf(vmath.Normal, vmath.Direction, vmath.Direction) float64 { return 0 }
