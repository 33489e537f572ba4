package scene

import (
	"math/rand"

	"github.com/df07/photontrace/pkg/bvh"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/medium"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/render"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/vmath"
	"github.com/df07/photontrace/pkg/volume"
)

// Scene wraps the bounded BVH over entity shapes, the aggregate light
// and photon samplers built from the pool's emissive materials, and
// the volume scene, implementing render.Scene (spec.md §3). This
// replaces the teacher's flat Shapes/Lights/BVH struct with the
// entity-pool + narrow-interface design render.ProgressiveRenderer
// depends on.
type Scene struct {
	pool       *EntityPool
	tree       *bvh.BVH
	lights     sampling.LightSampler
	photons    sampling.PhotonSampler
	volume     *volume.Scene
	background color.Spectrum
	camera     *render.Camera
}

// Config bundles the inputs needed to build a Scene.
type Config struct {
	Pool       *EntityPool
	Volumes    []volume.Boundary
	Background color.Spectrum
	Camera     *render.Camera
}

// New builds the scene acceleration structures: a BVH over all
// entities, aggregate light/photon samplers over every emissive
// shape, and the volume scene's boundary decomposition. Mirrors the
// teacher's Scene.Preprocess, done eagerly here instead of as a
// separate step since nothing in this design mutates the pool after
// construction.
func New(cfg Config, rng *rand.Rand) *Scene {
	s := &Scene{
		pool:       cfg.Pool,
		tree:       bvh.Build(cfg.Pool.Shapes),
		background: cfg.Background,
		camera:     cfg.Camera,
	}

	var lightSamplers []sampling.LightSampler
	var photonSamplers []sampling.PhotonSampler
	for i, m := range cfg.Pool.Materials {
		em, ok := m.(material.EmissiveMaterial)
		if !ok {
			continue
		}
		ps, err := newShapeSampler(cfg.Pool.Shapes[i])
		if err != nil {
			continue
		}
		lightSamplers = append(lightSamplers, sampling.NewLightSamplerAdapter(ps, emissiveRadiance(em)))
		photonSamplers = append(photonSamplers, &emitterPhotonSampler{points: ps, em: em})
	}
	s.lights = sampling.NewAggregateLightSampler(lightSamplers)
	s.photons = sampling.NewAggregatePhotonSampler(photonSamplers)

	if len(cfg.Volumes) > 0 {
		s.volume = volume.Build(cfg.Volumes, rng)
	}
	return s
}

// emissiveRadiance adapts an EmissiveMaterial's Emit into the
// sampling.LightSamplerAdapter's Radiance callback, whose wo argument
// points from the reference point toward the light; Emit wants the
// outward-facing direction from the light toward the viewer, the
// negation of that.
func emissiveRadiance(em material.EmissiveMaterial) func(vmath.Point, vmath.Normal, vmath.Direction) color.Spectrum {
	return func(_ vmath.Point, n vmath.Normal, wo vmath.Direction) color.Spectrum {
		outward := vmath.NewDirection(wo.Negate())
		return em.Emit(n, outward)
	}
}

func (s *Scene) Intersect(r ray.Ray, rng ray.Range) (ray.Intersection, material.Material, bool) {
	hit, id, ok := s.tree.SearchID(r, rng)
	if !ok {
		return ray.Intersection{}, nil, false
	}
	return hit, s.pool.Materials[id], true
}

func (s *Scene) Lights() sampling.LightSampler   { return s.lights }
func (s *Scene) Photons() sampling.PhotonSampler { return s.photons }
func (s *Scene) Background() color.Spectrum      { return s.background }
func (s *Scene) Camera() *render.Camera          { return s.camera }

func (s *Scene) Volume(r ray.Ray, rng ray.Range) *medium.AggregateMedium {
	if s.volume == nil {
		return nil
	}
	segs := s.volume.FindSegments(r, rng)
	if len(segs) == 0 {
		return nil
	}
	return medium.NewAggregateMedium(segs)
}
