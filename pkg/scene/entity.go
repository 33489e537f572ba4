// Package scene joins shapes to materials and volume boundaries to
// media into the entity/volume scene graphs spec.md §3 describes,
// implements the render.Scene interface the progressive driver needs,
// and bundles three example scene builders. Grounded on the teacher's
// pkg/scene (one-file-per-scene, New<Name>Scene constructors) and
// pkg/core/scene.go's entity-pool idea, generalized from the
// teacher's single shape+material slice pair to the full shape/
// material/medium kind set.
package scene

import (
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/shape"
)

// EntityPool is the by-kind vectors of shapes and materials joined by
// a shared index, spec.md §3's "EntityPool (by-kind vectors of shapes
// and materials)".
type EntityPool struct {
	Shapes    []shape.Shape
	Materials []material.Material
}

// Add appends a shape/material pair and returns its entity id.
func (p *EntityPool) Add(s shape.Shape, m material.Material) int {
	id := len(p.Shapes)
	p.Shapes = append(p.Shapes, s)
	p.Materials = append(p.Materials, m)
	return id
}
