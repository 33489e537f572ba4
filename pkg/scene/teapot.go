package scene

import (
	"math/rand"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/render"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

// Teapot builds a small room lit by a ceiling panel around a diffuse
// white, red, blue and white-walled box, with the teapot mesh itself
// loaded lazily through the caller-supplied loader so pkg/scene does
// not need to depend on pkg/loader (examples/teapot.rs). When no
// loader is given, a placeholder sphere stands in for the mesh, the
// same graceful-degradation pattern the teacher's dragon scene used
// for a missing PLY file.
func Teapot(loadMesh func(pool *EntityPool) error) (*Scene, error) {
	pool := &EntityPool{}

	white, err := material.NewDiffuse(texture.NewConstant(color.New(0.9, 0.9, 0.9)))
	if err != nil {
		return nil, err
	}
	red, err := material.NewDiffuse(texture.NewConstant(color.New(0.9, 0.1, 0.1)))
	if err != nil {
		return nil, err
	}
	blue, err := material.NewDiffuse(texture.NewConstant(color.New(0.1, 0.1, 0.9)))
	if err != nil {
		return nil, err
	}
	light := material.NewEmissive(texture.NewConstant(color.New(9, 8.5, 8).Scale(10)), false)

	poly := func(m material.Material, verts ...vmath.Point) {
		p, err := shape.NewPolygon(verts)
		if err == nil {
			pool.Add(p, m)
		}
	}

	poly(light,
		vmath.NewPoint(1.2, 9.9999, -0.9), vmath.NewPoint(1.2, 9.9999, 0.9),
		vmath.NewPoint(-1.2, 9.9999, 0.9), vmath.NewPoint(-1.2, 9.9999, -0.9))
	poly(white, // floor
		vmath.NewPoint(5, 0, -5), vmath.NewPoint(-5, 0, -5),
		vmath.NewPoint(-5, 0, 5), vmath.NewPoint(5, 0, 5))
	poly(white, // ceiling
		vmath.NewPoint(5, 10, -5), vmath.NewPoint(5, 10, 5),
		vmath.NewPoint(-5, 10, 5), vmath.NewPoint(-5, 10, -5))
	poly(red, // left wall
		vmath.NewPoint(-5, 0, -5), vmath.NewPoint(-5, 10, -5),
		vmath.NewPoint(-5, 10, 5), vmath.NewPoint(-5, 0, 5))
	poly(blue, // right wall
		vmath.NewPoint(5, 0, -5), vmath.NewPoint(5, 0, 5),
		vmath.NewPoint(5, 10, 5), vmath.NewPoint(5, 10, -5))
	poly(white, // back wall
		vmath.NewPoint(5, 0, -5), vmath.NewPoint(5, 10, -5),
		vmath.NewPoint(-5, 10, -5), vmath.NewPoint(-5, 0, -5))

	if loadMesh != nil {
		if err := loadMesh(pool); err != nil {
			return nil, err
		}
	} else {
		porcelain, err := material.NewGlossy(color.New(0.95, 0.95, 0.92), 0.0, 0.1)
		if err != nil {
			return nil, err
		}
		body, err := shape.NewSphere(vmath.NewPoint(0, 1.2, 0), 1.2)
		if err != nil {
			return nil, err
		}
		pool.Add(body, porcelain)
	}

	cam, err := render.NewCamera(
		vmath.NewPoint(0, 5, 19.7), vmath.NewPoint(0, 5, 0),
		vmath.NewVector(0, 1, 0), 25, 1, 1)
	if err != nil {
		return nil, err
	}

	cfg := Config{Pool: pool, Background: color.Gray(0.01), Camera: cam}
	return New(cfg, rand.New(rand.NewSource(2))), nil
}
