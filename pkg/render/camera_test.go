package render

import (
	"testing"

	"github.com/df07/photontrace/pkg/vmath"
)

func TestCameraCenterRayPointsAtTarget(t *testing.T) {
	origin := vmath.NewPoint(0, 0, 0)
	target := vmath.NewPoint(0, 0, -1)
	up := vmath.NewVector(0, 1, 0)

	cam, err := NewCamera(origin, target, up, 90, 16.0/9.0, 1.0)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	r := cam.GetRay(0.5, 0.5)
	want := target.Sub(origin)
	wantDir, _ := want.Normalize()
	const eps = 1e-6
	if abs(r.Direction.X-wantDir.X) > eps || abs(r.Direction.Y-wantDir.Y) > eps || abs(r.Direction.Z-wantDir.Z) > eps {
		t.Errorf("center ray direction = %+v, want %+v", r.Direction, wantDir)
	}
}

func TestNewCameraRejectsDegenerateFocalLength(t *testing.T) {
	origin := vmath.NewPoint(0, 0, 0)
	target := vmath.NewPoint(0, 0, -1)
	up := vmath.NewVector(0, 1, 0)
	if _, err := NewCamera(origin, target, up, 90, 16.0/9.0, 0); err == nil {
		t.Error("expected error for zero focal length")
	}
}
