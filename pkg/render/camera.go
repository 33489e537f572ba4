// Package render implements the camera, image accumulator, and
// progressive photon-mapping driver (spec.md §4.8), grounded on the
// teacher's pkg/renderer (Camera.GetRay, ProgressiveRaytracer pass
// loop), generalized to a finite-height pinhole viewport at an
// explicit focal length and an aspect-ratio-constrained resolution.
package render

import (
	"math"

	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/vmath"
)

// Camera is a pinhole camera with a finite-height viewport one focal
// length along its orientation axis (spec.md §6).
type Camera struct {
	origin                vmath.Point
	lowerLeftCorner       vmath.Point
	horizontal, vertical  vmath.Vector
}

// NewCamera builds a Camera looking from origin toward target, with
// the given vertical field-of-view (degrees), aspect ratio, and focal
// length.
func NewCamera(origin, target vmath.Point, up vmath.Vector, vfovDeg, aspectRatio, focalLength float64) (*Camera, error) {
	if focalLength <= 0 {
		return nil, buildutil.New(buildutil.InvalidParameter, "camera: focal length must be > 0")
	}
	if aspectRatio <= 0 {
		return nil, buildutil.New(buildutil.InvalidParameter, "camera: aspect ratio must be > 0")
	}
	theta := vfovDeg * math.Pi / 180
	viewportHeight := 2 * focalLength * math.Tan(theta/2)
	viewportWidth := aspectRatio * viewportHeight

	fwdVec := target.Sub(origin)
	fwd, ok := fwdVec.Normalize()
	if !ok {
		return nil, buildutil.New(buildutil.InvalidParameter, "camera: origin and target must differ")
	}
	right, ok := fwd.Vector().Cross(up).Normalize()
	if !ok {
		return nil, buildutil.New(buildutil.InvalidParameter, "camera: up must not be parallel to view direction")
	}
	camUp := right.Vector().Cross(fwd.Vector())

	horizontal := right.Scale(viewportWidth)
	vertical := camUp.Scale(viewportHeight)
	lowerLeft := origin.
		Translate(fwd.Scale(focalLength)).
		Translate(horizontal.Scale(-0.5)).
		Translate(vertical.Scale(-0.5))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeft,
		horizontal:      horizontal,
		vertical:        vertical,
	}, nil
}

// GetRay returns the ray through pixel-space offset (s,t) in [0,1]^2.
func (c *Camera) GetRay(s, t float64) ray.Ray {
	target := c.lowerLeftCorner.
		Translate(c.horizontal.Scale(s)).
		Translate(c.vertical.Scale(t))
	dirVec := target.Sub(c.origin)
	dir, _ := dirVec.Normalize()
	return ray.Ray{Start: c.origin, Direction: vmath.NewDirection(dir)}
}

// ResolutionForAspect keeps the requested width and derives the height
// as width/aspectRatio truncated to an integer, with a minimum of 1
// (spec.md §6: "resolution constrained to a given aspect ratio").
func ResolutionForAspect(width int, aspectRatio float64) (w, h int) {
	h = int(float64(width) / aspectRatio)
	if h < 1 {
		h = 1
	}
	return width, h
}
