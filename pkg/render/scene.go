package render

import (
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/medium"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/vmath"
)

// Scene is the narrow surface ProgressiveRenderer needs from a scene
// graph, kept separate from pkg/scene so render has no dependency on
// the concrete entity/volume wiring (mirrors the material.Prober
// pattern used to break the material/scene cycle).
type Scene interface {
	// Intersect finds the nearest surface hit and its material.
	Intersect(r ray.Ray, rng ray.Range) (ray.Intersection, material.Material, bool)

	// Lights is the aggregate solid-angle light sampler used for MIS
	// direct lighting.
	Lights() sampling.LightSampler

	// Photons is the aggregate emission sampler used to seed photon
	// tracing passes.
	Photons() sampling.PhotonSampler

	// Volume decomposes a ray into participating-medium segments, or
	// returns nil if the scene has no volumes along it.
	Volume(r ray.Ray, rng ray.Range) *medium.AggregateMedium

	// Background is the radiance returned for rays that escape the
	// scene entirely.
	Background() color.Spectrum

	Camera() *Camera
}

// probeAdapter implements material.Prober against a Scene, letting
// BSSRDF entry-point search reuse the same intersection path as
// regular shading.
type probeAdapter struct {
	scene Scene
}

func (p probeAdapter) Probe(origin vmath.Point, dir vmath.Direction) (vmath.Point, vmath.Normal, bool) {
	hit, _, ok := p.scene.Intersect(ray.Ray{Start: origin, Direction: dir}, ray.FullRange())
	if !ok {
		return vmath.Point{}, vmath.Normal{}, false
	}
	return hit.Position, hit.Normal, true
}
