package render

import (
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/logctx"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/medium"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/vmath"
)

// emptyScene is a Scene with no geometry and no lights: every ray
// escapes to the background.
type emptyScene struct {
	cam *Camera
}

func (emptyScene) Intersect(ray.Ray, ray.Range) (ray.Intersection, material.Material, bool) {
	return ray.Intersection{}, nil, false
}
func (emptyScene) Lights() sampling.LightSampler   { return sampling.NewAggregateLightSampler(nil) }
func (emptyScene) Photons() sampling.PhotonSampler { return sampling.NewAggregatePhotonSampler(nil) }
func (emptyScene) Volume(ray.Ray, ray.Range) *medium.AggregateMedium { return nil }
func (emptyScene) Background() color.Spectrum                       { return color.Gray(0.5) }
func (s emptyScene) Camera() *Camera                                { return s.cam }

func newTestRenderer(t *testing.T) *ProgressiveRenderer {
	t.Helper()
	cam, err := NewCamera(
		vmath.NewPoint(0, 0, 5), vmath.NewPoint(0, 0, 0), vmath.NewVector(0, 1, 0),
		40, 1, 1,
	)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	cfg := Config{
		Iterations: 1, SppPerIteration: 1, MaxDepth: 2, MaxInvisibleDepth: 2,
		InitialNumNearest: 4,
	}
	r, err := NewProgressiveRenderer(emptyScene{cam: cam}, cfg, Resolution{Width: 4, Height: 4}, logctx.Nop{})
	if err != nil {
		t.Fatalf("NewProgressiveRenderer: %v", err)
	}
	return r
}

func TestRunFillsImageWithBackground(t *testing.T) {
	r := newTestRenderer(t)
	r.Run(1)

	got := r.Accumulator().Image.At(0, 0)
	if got.R != 0.5 || got.G != 0.5 || got.B != 0.5 {
		t.Errorf("expected every pixel to equal the background color, got %+v", got)
	}
}

func TestRunIterationThenEmittedPhotonCounts(t *testing.T) {
	r := newTestRenderer(t)
	r.RunIteration(1)

	global, caustic := r.EmittedPhotonCounts()
	if global != r.Config.PhotonsGlobal || caustic != r.Config.PhotonsCaustic {
		t.Errorf("EmittedPhotonCounts = (%d,%d), want (%d,%d)", global, caustic, r.Config.PhotonsGlobal, r.Config.PhotonsCaustic)
	}
}
