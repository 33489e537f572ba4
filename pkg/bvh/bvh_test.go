package bvh

import (
	"math"
	"testing"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/vmath"
)

func buildScenario5(t *testing.T) *BVH {
	t.Helper()
	sphere, err := shape.NewSphere(vmath.NewPoint(1, 0, 2), 1)
	if err != nil {
		t.Fatalf("sphere: %v", err)
	}
	tri, err := shape.NewTriangle(vmath.NewPoint(-2, 0, 0), vmath.NewPoint(0, 1, 0), vmath.NewPoint(0, 0, 1))
	if err != nil {
		t.Fatalf("triangle: %v", err)
	}
	// Quad placed away from this ray's path through the x=0 plane.
	quad, err := shape.NewPolygon([]vmath.Point{
		vmath.NewPoint(0, 5, 5), vmath.NewPoint(0, 10, 5), vmath.NewPoint(0, 10, 10), vmath.NewPoint(0, 5, 10),
	})
	if err != nil {
		t.Fatalf("quad: %v", err)
	}
	return Build([]shape.Shape{sphere, tri, quad})
}

func scenario5Ray() ray.Ray {
	dir := vmath.NewVector(2, 1, 2)
	u, _ := dir.Normalize()
	return ray.Ray{Start: vmath.NewPoint(-1, 0, 0), Direction: vmath.NewDirection(u)}
}

func TestBVHNearestHitMatchesBruteForce(t *testing.T) {
	tree := buildScenario5(t)
	r := scenario5Ray()
	rng := ray.FullRange()

	hit, ok := tree.Search(r, rng)
	if !ok {
		t.Fatalf("expected a hit")
	}

	// brute-force scan
	var bruteHit ray.Intersection
	bruteFound := false
	bestRange := rng
	for _, s := range tree.Shapes {
		if h, ok := shape.Hit(s, r, bestRange); ok {
			bruteHit = h
			bestRange.Max = h.Distance
			bruteFound = true
		}
	}
	if !bruteFound {
		t.Fatalf("brute force found no hit")
	}
	if math.Abs(hit.Distance.Float()-bruteHit.Distance.Float()) > 1e-6 {
		t.Errorf("BVH hit distance %v != brute force %v", hit.Distance, bruteHit.Distance)
	}

	wantPos := vmath.NewPoint(-0.5, 0.25, 0.5)
	if math.Abs(hit.Position.X-wantPos.X) > 1e-6 || math.Abs(hit.Position.Y-wantPos.Y) > 1e-6 || math.Abs(hit.Position.Z-wantPos.Z) > 1e-6 {
		t.Errorf("hit position = %v, want %v", hit.Position, wantPos)
	}
}

func TestBVHSearchAllSortedDistances(t *testing.T) {
	tree := buildScenario5(t)
	r := scenario5Ray()

	hits := tree.SearchAll(r, ray.FullRange())
	if len(hits) != 3 {
		t.Fatalf("expected 3 intersections, got %d", len(hits))
	}

	want := []float64{0.75, 7.0 / 3.0, 3.0}
	for i, h := range hits {
		if math.Abs(h.Distance.Float()-want[i]) > 1e-6 {
			t.Errorf("hit[%d] distance = %v, want %v", i, h.Distance.Float(), want[i])
		}
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hits not sorted: %v before %v", hits[i-1].Distance, hits[i].Distance)
		}
	}
}

func TestBVHSearchAllIDMatchesSearchAllAndOwningShape(t *testing.T) {
	tree := buildScenario5(t)
	r := scenario5Ray()

	hits := tree.SearchAll(r, ray.FullRange())
	idHits, ids := tree.SearchAllID(r, ray.FullRange())

	if len(idHits) != len(hits) {
		t.Fatalf("SearchAllID returned %d hits, SearchAll returned %d", len(idHits), len(hits))
	}
	for i := range hits {
		if idHits[i] != hits[i] {
			t.Errorf("hit[%d] = %+v, want %+v", i, idHits[i], hits[i])
		}
		if ids[i] < 0 || ids[i] >= len(tree.Shapes) {
			t.Fatalf("hit[%d] id %d out of range", i, ids[i])
		}
		// the triangle (id 1) is the only shape this ray crosses once;
		// the sphere (id 0) is crossed twice (enter/exit).
		if _, ok := shape.Hit(tree.Shapes[ids[i]], r, ray.FullRange()); !ok {
			t.Errorf("hit[%d] id %d does not name a shape the ray actually hits", i, ids[i])
		}
	}
	wantIDs := []int{1, 0, 0}
	for i, want := range wantIDs {
		if ids[i] != want {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want)
		}
	}
}
