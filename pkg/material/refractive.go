package material

import (
	"math"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

// Refractive is a smooth dielectric (glass) BSDF: Fresnel-weighted
// choice between specular reflection and refraction, generalizing the
// teacher's Dielectric.
type Refractive struct {
	IOR   float64 // index of refraction of the interior medium
	Color color.Spectrum
}

func NewRefractive(ior float64, tint color.Spectrum) (*Refractive, error) {
	if ior <= 0 {
		return nil, invalidParam("refractive: ior must be > 0")
	}
	return &Refractive{IOR: ior, Color: tint}, nil
}

func (r *Refractive) Kind() Kind         { return KindRefractive }
func (r *Refractive) Category() Category { return CategorySpecular }

func (r *Refractive) Contract() Contract {
	return Contract{BouncesPhotonRR: true, MarksSpecular: true}
}

func (r *Refractive) Bsdf(vmath.Normal, vmath.Direction, vmath.Direction) color.Spectrum {
	return color.Black
}

func (r *Refractive) SampleBsdf(normal vmath.Normal, wo vmath.Direction, rng Rng) (BounceSample, bool) {
	cosI := normal.Dot(wo.Vector())
	n := normal
	eta := 1 / r.IOR
	if cosI < 0 {
		n = normal.Negate()
		eta = r.IOR
		cosI = -cosI
	}

	reflectance, tir := FresnelDielectric(cosI, 1/eta)
	if tir || rng.Get1D() < reflectance {
		reflected := wo.Negate().Reflect(n)
		return BounceSample{
			Direction:   vmath.NewDirection(reflected),
			Pdf:         1,
			IsSpecular:  true,
			Attenuation: r.Color,
		}, true
	}

	refracted, ok := refract(wo.Vector(), n, eta)
	if !ok {
		return BounceSample{}, false
	}
	dir, ok := refracted.Normalize()
	if !ok {
		return BounceSample{}, false
	}
	return BounceSample{
		Direction:   vmath.NewDirection(dir),
		Pdf:         1,
		IsSpecular:  true,
		Attenuation: r.Color,
	}, true
}

func (r *Refractive) PdfBsdf(vmath.Normal, vmath.Direction, vmath.Direction) float64 { return 0 }

// refract bends an incoming direction wi (pointing away from the
// surface, i.e. -incident) through the interface with the given
// outward normal n and relative index eta = n_incident/n_transmit.
func refract(wi vmath.Vector, n vmath.Normal, eta float64) (vmath.Vector, bool) {
	cosI := n.Dot(wi)
	sin2ThetaT := eta * eta * math.Max(0, 1-cosI*cosI)
	if sin2ThetaT >= 1 {
		return vmath.Vector{}, false
	}
	cosT := math.Sqrt(1 - sin2ThetaT)
	return wi.Scale(-eta).Add(n.Vector().Scale(eta*cosI - cosT)), true
}
