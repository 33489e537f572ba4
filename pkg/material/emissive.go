package material

import (
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

// Emissive is a light-emitting surface, the direct generalization of
// the teacher's Emissive (which emitted a fixed color regardless of
// ray) to a radiance texture and an explicit one/two-sided switch.
type Emissive struct {
	Radiance texture.Texture
	TwoSided bool
}

func NewEmissive(radiance texture.Texture, twoSided bool) *Emissive {
	return &Emissive{Radiance: radiance, TwoSided: twoSided}
}

func (e *Emissive) Kind() Kind         { return KindEmissive }
func (e *Emissive) Category() Category { return CategoryEmissive }

// Contract is the zero value: Emissive is a source, not a photon
// participant (spec.md §4.3's table marks every column "—").
func (e *Emissive) Contract() Contract { return Contract{} }

// Emit returns the emitted radiance toward wo, given the shading
// normal. A one-sided emitter is dark when viewed from its back face.
func (e *Emissive) Emit(normal vmath.Normal, wo vmath.Direction) color.Spectrum {
	facingOut := normal.Dot(wo.Vector()) > 0
	if !facingOut && !e.TwoSided {
		return color.Black
	}
	return albedoAt(e.Radiance, vmath.Point{})
}
