package scene

import (
	"testing"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestCornellBuildsAndIntersects(t *testing.T) {
	s, err := Cornell()
	if err != nil {
		t.Fatalf("Cornell: %v", err)
	}
	r := ray.Ray{Start: vmath.NewPoint(278, 278, -800), Direction: vmath.NewDirection(vmath.UnitVector{Z: 1})}
	hit, mat, ok := s.Intersect(r, ray.FullRange())
	if !ok {
		t.Fatal("expected center ray to hit the back wall")
	}
	if mat == nil {
		t.Error("expected a material for the hit")
	}
	if hit.Position.Z <= 0 {
		t.Errorf("hit.Position.Z = %v, want > 0", hit.Position.Z)
	}
}

func TestCornellHasLightSampler(t *testing.T) {
	s, err := Cornell()
	if err != nil {
		t.Fatalf("Cornell: %v", err)
	}
	if s.Lights() == nil {
		t.Fatal("expected a non-nil light sampler")
	}
	if s.Photons() == nil {
		t.Fatal("expected a non-nil photon sampler")
	}
}

func TestDiamondHasVolume(t *testing.T) {
	s, err := Diamond()
	if err != nil {
		t.Fatalf("Diamond: %v", err)
	}
	r := ray.Ray{Start: vmath.NewPoint(0, 5, 80), Direction: vmath.NewDirection(vmath.UnitVector{Z: -1})}
	if v := s.Volume(r, ray.FullRange()); v == nil {
		t.Error("expected a non-nil aggregate medium inside the fog boundary")
	}
}

func TestTeapotPlaceholderMesh(t *testing.T) {
	s, err := Teapot(nil)
	if err != nil {
		t.Fatalf("Teapot: %v", err)
	}
	if s.Camera() == nil {
		t.Error("expected a camera")
	}
}
