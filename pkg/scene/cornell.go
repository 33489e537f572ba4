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

// quad adds two triangles spanning corner, corner+u, corner+u+v,
// corner+v to the pool under material m.
func quad(pool *EntityPool, corner vmath.Point, u, v vmath.Vector, m material.Material) {
	a := corner
	b := corner.Translate(u)
	c := corner.Translate(u).Translate(v)
	d := corner.Translate(v)
	t1, err := shape.NewTriangle(a, b, c)
	if err == nil {
		pool.Add(t1, m)
	}
	t2, err := shape.NewTriangle(a, c, d)
	if err == nil {
		pool.Add(t2, m)
	}
}

// Cornell builds the classic Cornell box: a diffuse red/green/white
// box with an area light in the ceiling and a metal and glass sphere
// on the floor, the canonical scene for validating MIS direct
// lighting and caustic photon gathering (examples/cornell_box.rs).
func Cornell() (*Scene, error) {
	pool := &EntityPool{}

	white, err := material.NewDiffuse(texture.NewConstant(color.Gray(0.73)))
	if err != nil {
		return nil, err
	}
	red, err := material.NewDiffuse(texture.NewConstant(color.New(0.65, 0.05, 0.05)))
	if err != nil {
		return nil, err
	}
	green, err := material.NewDiffuse(texture.NewConstant(color.New(0.12, 0.45, 0.15)))
	if err != nil {
		return nil, err
	}
	light := material.NewEmissive(texture.NewConstant(color.New(15, 15, 15)), false)

	const boxSize = 555.0
	x := vmath.NewVector(boxSize, 0, 0)
	y := vmath.NewVector(0, boxSize, 0)
	z := vmath.NewVector(0, 0, boxSize)

	quad(pool, vmath.NewPoint(0, 0, 0), x, z, white)         // floor
	quad(pool, vmath.NewPoint(0, boxSize, 0), x, z, white)   // ceiling
	quad(pool, vmath.NewPoint(0, 0, boxSize), x, y, white)   // back wall
	quad(pool, vmath.NewPoint(0, 0, 0), z, y, red)           // left wall
	quad(pool, vmath.NewPoint(boxSize, 0, 0), y, z, green)   // right wall

	lightSize := 130.0
	lightOffset := (555.0 - lightSize) / 2.0
	quad(pool, vmath.NewPoint(lightOffset, 554, lightOffset),
		vmath.NewVector(lightSize, 0, 0), vmath.NewVector(0, 0, lightSize), light)

	metal, err := material.NewGlossy(color.New(0.8, 0.8, 0.9), 1.0, 0.01)
	if err != nil {
		return nil, err
	}
	leftSphere, err := shape.NewSphere(vmath.NewPoint(185, 82.5, 169), 82.5)
	if err != nil {
		return nil, err
	}
	pool.Add(leftSphere, metal)

	glass, err := material.NewRefractive(1.5, color.Gray(0.95))
	if err != nil {
		return nil, err
	}
	rightSphere, err := shape.NewSphere(vmath.NewPoint(370, 90, 351), 90)
	if err != nil {
		return nil, err
	}
	pool.Add(rightSphere, glass)

	cam, err := render.NewCamera(
		vmath.NewPoint(278, 278, -800), vmath.NewPoint(278, 278, 0),
		vmath.NewVector(0, 1, 0), 40, 1, 1)
	if err != nil {
		return nil, err
	}

	cfg := Config{Pool: pool, Background: color.Black, Camera: cam}
	return New(cfg, rand.New(rand.NewSource(1))), nil
}
