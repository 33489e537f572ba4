package material

import (
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestEmissiveOneSidedIsDarkFromBehind(t *testing.T) {
	e := NewEmissive(texture.NewConstant(color.New(1, 2, 3)), false)
	n := vmath.Normal{Z: 1}

	front := e.Emit(n, vmath.NewDirection(vmath.UnitVector{Z: 1}))
	if front.IsBlack() {
		t.Error("expected emission toward the front face")
	}

	back := e.Emit(n, vmath.NewDirection(vmath.UnitVector{Z: -1}))
	if !back.IsBlack() {
		t.Errorf("expected no emission toward the back face, got %+v", back)
	}
}

func TestEmissiveTwoSidedEmitsBothWays(t *testing.T) {
	e := NewEmissive(texture.NewConstant(color.New(1, 1, 1)), true)
	n := vmath.Normal{Z: 1}

	back := e.Emit(n, vmath.NewDirection(vmath.UnitVector{Z: -1}))
	if back.IsBlack() {
		t.Error("expected a two-sided emitter to emit from its back face too")
	}
}

func TestEmissiveInterfaceCompliance(t *testing.T) {
	var _ Material = NewEmissive(texture.NewConstant(color.Black), false)
	var _ EmissiveMaterial = NewEmissive(texture.NewConstant(color.Black), false)
}
