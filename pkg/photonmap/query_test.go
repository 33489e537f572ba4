package photonmap

import (
	"math/rand"
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestRadiusSearchInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var photons []Photon
	for i := 0; i < 200; i++ {
		p := vmath.NewPoint(rng.Float64()*10, rng.Float64()*10, rng.Float64()*10)
		photons = append(photons, Photon{Position: p, Power: color.White})
	}
	tree := Build(photons)

	center := vmath.NewPoint(5, 5, 5)
	radius := 2.0

	got := tree.RadiusSearch(center, radius)
	gotSet := map[vmath.Point]bool{}
	for _, p := range got {
		d := center.Sub(p.Position).Length()
		if d > radius+1e-9 {
			t.Errorf("returned photon at distance %v exceeds radius %v", d, radius)
		}
		gotSet[p.Position] = true
	}

	for _, p := range photons {
		d := center.Sub(p.Position).Length()
		if d <= radius && !gotSet[p.Position] {
			t.Errorf("photon at distance %v within radius was not returned", d)
		}
	}
}

func TestKNearestReturnsClosest(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var photons []Photon
	for i := 0; i < 50; i++ {
		p := vmath.NewPoint(rng.Float64()*10, rng.Float64()*10, rng.Float64()*10)
		photons = append(photons, Photon{Position: p})
	}
	tree := Build(photons)
	center := vmath.NewPoint(0, 0, 0)

	k := 5
	got := tree.KNearest(center, k)
	if len(got) != k {
		t.Fatalf("expected %d photons, got %d", k, len(got))
	}

	worst := 0.0
	for _, p := range got {
		d := center.Sub(p.Position).Length()
		if d > worst {
			worst = d
		}
	}

	for _, p := range photons {
		d := center.Sub(p.Position).Length()
		if d < worst-1e-9 {
			found := false
			for _, g := range got {
				if g.Position == p.Position {
					found = true
				}
			}
			if !found {
				t.Errorf("photon closer than the kNN worst distance (%v < %v) was excluded", d, worst)
			}
		}
	}
}
