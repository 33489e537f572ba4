// Package volume implements the volume scene's interval decomposition
// (spec.md §4.4): given a ray, find the ordered list of segments that
// lie inside a non-vacuum medium. It reuses pkg/bvh generically over
// volume boundary shapes exactly as spec.md §9 prescribes ("All
// parallelism is data-parallel... Implementations should prefer a
// fork-join pool"; the BVH itself needs no changes to index boundary
// shapes instead of surface shapes).
package volume

import (
	"math/rand"

	"github.com/df07/photontrace/pkg/bvh"
	"github.com/df07/photontrace/pkg/medium"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/vmath"
)

// Boundary binds a bounding shape to the medium inside it.
type Boundary struct {
	Shape  shape.Shape
	Medium medium.Medium
}

// Scene precomputes each boundary's outer medium and answers
// find_segments queries against a BVH built over the boundary shapes.
type Scene struct {
	boundaries []Boundary
	tree       *bvh.BVH
	outer      map[int]medium.Medium // boundary index -> outer medium
	vacuum     medium.Medium
}

// Build constructs a Scene, probing each boundary with up to 16 random
// outward rays to discover its outer medium (spec.md §4.4).
func Build(boundaries []Boundary, rng *rand.Rand) *Scene {
	shapes := make([]shape.Shape, len(boundaries))
	for i, b := range boundaries {
		shapes[i] = b.Shape
	}
	s := &Scene{
		boundaries: boundaries,
		tree:       bvh.Build(shapes),
		outer:      map[int]medium.Medium{},
		vacuum:     medium.Vacuum{},
	}
	for i, b := range boundaries {
		s.outer[i] = s.probeOuterMedium(b, rng)
	}
	return s
}

// probeOuterMedium launches up to 16 random probe rays from sampled
// points on the boundary, pointing outward; the first back-facing hit
// on the boundary pool names the outer medium.
func (s *Scene) probeOuterMedium(b Boundary, rng *rand.Rand) medium.Medium {
	box, ok := b.Shape.BoundingBox()
	if !ok {
		return s.vacuum
	}
	for attempt := 0; attempt < 16; attempt++ {
		p := randomSurfacePoint(box, rng)
		dir := randomDirection(rng)
		start := p.Translate(dir.Scale(1e-4))
		if start.X > box.Min.X && start.X < box.Max.X && start.Y > box.Min.Y && start.Y < box.Max.Y && start.Z > box.Min.Z && start.Z < box.Max.Z {
			dir = vmath.NewDirection(dir.Negate())
			start = p.Translate(dir.Scale(1e-4))
		}
		r := ray.Ray{Start: start, Direction: dir}
		hits, ids := s.tree.SearchAllID(r, ray.FullRange())
		for i, h := range hits {
			if h.Side == ray.Back {
				if idx := s.indexOf(ids[i]); idx >= 0 {
					return s.boundaries[idx].Medium
				}
			}
		}
	}
	return s.vacuum
}

// indexOf maps a BVH shape id back to its boundary index. The tree is
// built from s.boundaries in order (Build passes shapes[i] = b.Shape),
// so the shape id already is the boundary index; this just names that
// invariant instead of letting callers assume it.
func (s *Scene) indexOf(shapeID int) int {
	if shapeID < 0 || shapeID >= len(s.boundaries) {
		return -1
	}
	return shapeID
}

func randomSurfacePoint(box shape.BoundingBox, rng *rand.Rand) vmath.Point {
	axis := rng.Intn(3)
	u, v := rng.Float64(), rng.Float64()
	lo, hi := box.Min, box.Max
	switch axis {
	case 0:
		x := lo.X
		if rng.Intn(2) == 1 {
			x = hi.X
		}
		return vmath.NewPoint(x, lo.Y+u*(hi.Y-lo.Y), lo.Z+v*(hi.Z-lo.Z))
	case 1:
		y := lo.Y
		if rng.Intn(2) == 1 {
			y = hi.Y
		}
		return vmath.NewPoint(lo.X+u*(hi.X-lo.X), y, lo.Z+v*(hi.Z-lo.Z))
	default:
		z := lo.Z
		if rng.Intn(2) == 1 {
			z = hi.Z
		}
		return vmath.NewPoint(lo.X+u*(hi.X-lo.X), lo.Y+v*(hi.Y-lo.Y), z)
	}
}

func randomDirection(rng *rand.Rand) vmath.Direction {
	for {
		x := 2*rng.Float64() - 1
		y := 2*rng.Float64() - 1
		z := 2*rng.Float64() - 1
		v := vmath.Vector{X: x, Y: y, Z: z}
		if v.LengthSquared() > 1 || v.LengthSquared() < 1e-9 {
			continue
		}
		u, _ := v.Normalize()
		return vmath.NewDirection(u)
	}
}

// FindSegments walks every boundary crossing along the ray, tracking
// the current medium and emitting non-vacuum segments (spec.md §4.4).
func (s *Scene) FindSegments(r ray.Ray, rng ray.Range) []medium.Segment {
	hits, ids := s.tree.SearchAllID(r, rng)
	if len(hits) == 0 {
		return nil
	}

	current := s.initialMedium(hits[0], ids[0])
	var segments []medium.Segment
	prevDist := rng.Min.Float()

	for i, h := range hits {
		if current != s.vacuum && current != nil {
			length := h.Distance.Float() - prevDist
			if length > 1e-9 {
				segments = append(segments, medium.Segment{
					Start:  r.At(vmath.Distance(prevDist)),
					Length: vmath.Distance(length),
					Medium: current,
				})
			}
		}
		idx := s.indexOf(ids[i])
		if idx < 0 {
			prevDist = h.Distance.Float()
			continue
		}
		if h.Side == ray.Front {
			current = s.boundaries[idx].Medium
		} else {
			current = s.outer[idx]
		}
		prevDist = h.Distance.Float()
	}

	return segments
}

func (s *Scene) initialMedium(first ray.Intersection, shapeID int) medium.Medium {
	idx := s.indexOf(shapeID)
	if idx < 0 {
		return s.vacuum
	}
	if first.Side == ray.Front {
		return s.outer[idx]
	}
	return s.boundaries[idx].Medium
}
