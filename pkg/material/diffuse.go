package material

import (
	"math"

	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

// Diffuse is a Lambertian BSDF material, generalizing the teacher's
// Lambertian from a fixed Vec3 albedo to a texture lookup.
type Diffuse struct {
	Albedo texture.Texture
}

// NewDiffuse constructs a Diffuse material over an albedo texture.
func NewDiffuse(albedo texture.Texture) (*Diffuse, error) {
	if albedo == nil {
		return nil, buildutil.New(buildutil.InvalidParameter, "diffuse: albedo texture required")
	}
	return &Diffuse{Albedo: albedo}, nil
}

func (d *Diffuse) Kind() Kind         { return KindDiffuse }
func (d *Diffuse) Category() Category { return CategoryDiffuse }

func (d *Diffuse) Contract() Contract {
	return Contract{SamplesLights: true, StoresGlobal: true, StoresCausticOnly: true, BouncesPhotonRR: true}
}

func albedoAt(t texture.Texture, p vmath.Point) color.Spectrum {
	return t.At(p, 0, 0)
}

func (d *Diffuse) bsdfAt(p vmath.Point, normal vmath.Normal, wo, wi vmath.Direction) color.Spectrum {
	if !sameHemisphere(normal, wo, wi) {
		return color.Black
	}
	return albedoAt(d.Albedo, p).Scale(1 / math.Pi)
}

// Bsdf evaluates the BSDF; position-dependent textures are resolved by
// callers via BsdfAt, this method exists to satisfy BSDFMaterial for
// achromatic-albedo use.
func (d *Diffuse) Bsdf(normal vmath.Normal, wo, wi vmath.Direction) color.Spectrum {
	return d.bsdfAt(vmath.Point{}, normal, wo, wi)
}

func (d *Diffuse) BsdfAt(p vmath.Point, normal vmath.Normal, wo, wi vmath.Direction) color.Spectrum {
	return d.bsdfAt(p, normal, wo, wi)
}

func (d *Diffuse) SampleBsdf(normal vmath.Normal, wo vmath.Direction, rng Rng) (BounceSample, bool) {
	u1, u2 := rng.Get2D()
	local, pdf := sampling.CosineHemisphere(u1, u2)
	world := sampling.ToBasis(normal, local)
	wi, ok := world.Normalize()
	if !ok || pdf <= 0 {
		return BounceSample{}, false
	}
	dir := vmath.NewDirection(wi)
	return BounceSample{
		Direction:   dir,
		Pdf:         pdf,
		Attenuation: d.bsdfAt(vmath.Point{}, normal, wo, dir),
	}, true
}

func (d *Diffuse) PdfBsdf(normal vmath.Normal, wo, wi vmath.Direction) float64 {
	if !sameHemisphere(normal, wo, wi) {
		return 0
	}
	cos := math.Abs(normal.Dot(wi.Vector()))
	return cos / math.Pi
}
