package scene

import (
	"math/rand"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/medium"
	"github.com/df07/photontrace/pkg/render"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
	"github.com/df07/photontrace/pkg/volume"
)

// Diamond builds a refractive gem (index of refraction 2.417, real
// diamond dispersion is out of scope) resting on a metal floor under
// four ceiling panels, suspended in a thin isotropic fog that
// render.ProgressiveRenderer attenuates primary rays through
// (examples/diamond.rs). This scene does not use pkg/loader, so the
// gem itself is a four-sided pyramid of triangular facets instead of
// the original's imported mesh.
func Diamond() (*Scene, error) {
	pool := &EntityPool{}

	glass, err := material.NewRefractive(2.417, color.Gray(0.9))
	if err != nil {
		return nil, err
	}
	apex := vmath.NewPoint(3, 2, -2)
	base := []vmath.Point{
		vmath.NewPoint(4, 0, -2),
		vmath.NewPoint(2, 0, -1),
		vmath.NewPoint(2, 0, -3),
		vmath.NewPoint(4, 0, -3),
	}
	for i := range base {
		facet, err := shape.NewTriangle(apex, base[i], base[(i+1)%len(base)])
		if err != nil {
			return nil, err
		}
		pool.Add(facet, glass)
	}

	iron, err := material.NewGlossy(color.New(0.56, 0.57, 0.58), 1.0, 0.3)
	if err != nil {
		return nil, err
	}
	floor, err := shape.NewPolygon([]vmath.Point{
		vmath.NewPoint(-100, 0, -100), vmath.NewPoint(100, 0, -100),
		vmath.NewPoint(100, 0, 100), vmath.NewPoint(-100, 0, 100),
	})
	if err != nil {
		return nil, err
	}
	pool.Add(floor, iron)

	light := material.NewEmissive(texture.NewConstant(color.Gray(2)), false)
	offsets := [4][2]float64{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for _, o := range offsets {
		dx, dz := o[0]*6, o[1]*6
		p, err := shape.NewPolygon([]vmath.Point{
			vmath.NewPoint(-4+dx, 18, -4+dz), vmath.NewPoint(4+dx, 18, -4+dz),
			vmath.NewPoint(4+dx, 18, 4+dz), vmath.NewPoint(-4+dx, 18, 4+dz),
		})
		if err != nil {
			return nil, err
		}
		pool.Add(p, light)
	}

	cam, err := render.NewCamera(
		vmath.NewPoint(0, 5, 80), vmath.NewPoint(0, 5, 0),
		vmath.NewVector(0, 1, 0), 30, 16.0/9.0, 2.0)
	if err != nil {
		return nil, err
	}

	fog, err := medium.NewIsotropic(color.Gray(0.5), 1000.0)
	if err != nil {
		return nil, err
	}
	bounds, err := shape.NewAabb(vmath.NewPoint(-100, -100, -100), vmath.NewPoint(100, 100, 100))
	if err != nil {
		return nil, err
	}
	vols := []volume.Boundary{{Shape: bounds, Medium: fog}}

	cfg := Config{Pool: pool, Volumes: vols, Background: color.Black, Camera: cam}
	return New(cfg, rand.New(rand.NewSource(3))), nil
}
