package shape

import (
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/vmath"
)

// MeshData is the immutable backing store shared by every MeshTriangle
// and MeshPolygon handle into a mesh. Go's garbage collector is the
// direct equivalent of the source's reference-counted pointer: sharing
// a *MeshData is cheap (copy a pointer) and the store is never mutated
// after Build returns.
type MeshData struct {
	Vertices  []vmath.Point
	Triangles [][3]int  // indices into Vertices, one per triangle face
	Polygons  [][]int   // indices into Vertices, one per >3-gon face
	Normals   []vmath.Normal
}

// faceNormal computes the normal of a triangular face from its vertex indices.
func (m *MeshData) faceNormal(idx [3]int) (vmath.Normal, bool) {
	a, b, c := m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// MeshBuilder validates and assembles a MeshData from raw OBJ-style
// face lists (spec.md §6 mesh input contract).
type MeshBuilder struct {
	Vertices []vmath.Point
}

// AddTriangleFace validates a triangular face's indices and returns
// the error kinds from spec.md §7 InvalidMesh row.
func (b *MeshBuilder) AddTriangleFace(data *MeshData, idx [3]int) error {
	for _, i := range idx {
		if i < 0 || i >= len(b.Vertices) {
			return newError(ErrInvalidMesh, "mesh: face index out of bounds")
		}
	}
	if _, err := NewTriangle(b.Vertices[idx[0]], b.Vertices[idx[1]], b.Vertices[idx[2]]); err != nil {
		return newError(ErrInvalidMesh, "mesh: face would form an invalid triangle")
	}
	data.Triangles = append(data.Triangles, idx)
	return nil
}

// AddPolygonFace validates a >3-vertex face's indices.
func (b *MeshBuilder) AddPolygonFace(data *MeshData, idx []int) error {
	var verts []vmath.Point
	for _, i := range idx {
		if i < 0 || i >= len(b.Vertices) {
			return newError(ErrInvalidMesh, "mesh: face index out of bounds")
		}
		verts = append(verts, b.Vertices[i])
	}
	if _, err := NewPolygon(verts); err != nil {
		return newError(ErrInvalidMesh, "mesh: face would form an invalid polygon")
	}
	data.Polygons = append(data.Polygons, idx)
	return nil
}

// NewMeshData builds a MeshData from vertices and face lists, running
// AddTriangleFace/AddPolygonFace validation on each face.
func NewMeshData(vertices []vmath.Point, triFaces [][3]int, polyFaces [][]int) (*MeshData, error) {
	b := &MeshBuilder{Vertices: vertices}
	data := &MeshData{Vertices: vertices}
	for _, f := range triFaces {
		if err := b.AddTriangleFace(data, f); err != nil {
			return nil, err
		}
	}
	for _, f := range polyFaces {
		if err := b.AddPolygonFace(data, f); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// MeshTriangle is a lightweight handle into a shared MeshData, naming
// one triangular face, with an optional instance transform.
type MeshTriangle struct {
	Data      *MeshData
	FaceIndex int
	Transform *vmath.Transformation // nil = no instancing
}

func (m *MeshTriangle) resolved() (*Triangle, error) {
	idx := m.Data.Triangles[m.FaceIndex]
	a, b, c := m.Data.Vertices[idx[0]], m.Data.Vertices[idx[1]], m.Data.Vertices[idx[2]]
	if m.Transform != nil {
		a, b, c = m.Transform.ApplyPoint(a), m.Transform.ApplyPoint(b), m.Transform.ApplyPoint(c)
	}
	return NewTriangle(a, b, c)
}

func (m *MeshTriangle) Kind() Kind { return KindMeshTriangle }

func (m *MeshTriangle) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	t, err := m.resolved()
	if err != nil {
		return ray.Part{}, false
	}
	return t.HitPart(r, rng)
}

func (m *MeshTriangle) CompletePart(p ray.Part) ray.Intersection {
	t, _ := m.resolved()
	return t.CompletePart(p)
}

func (m *MeshTriangle) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	t, err := m.resolved()
	if err != nil {
		return nil
	}
	return t.HitAll(r, rng)
}

func (m *MeshTriangle) Area() vmath.Area {
	t, err := m.resolved()
	if err != nil {
		return 0
	}
	return t.Area()
}

func (m *MeshTriangle) BoundingBox() (BoundingBox, bool) {
	t, err := m.resolved()
	if err != nil {
		return BoundingBox{}, false
	}
	return t.BoundingBox()
}

// MeshPolygon is the >3-vertex analogue of MeshTriangle.
type MeshPolygon struct {
	Data      *MeshData
	FaceIndex int
	Transform *vmath.Transformation
}

func (m *MeshPolygon) resolved() (*Polygon, error) {
	idx := m.Data.Polygons[m.FaceIndex]
	verts := make([]vmath.Point, len(idx))
	for i, vi := range idx {
		v := m.Data.Vertices[vi]
		if m.Transform != nil {
			v = m.Transform.ApplyPoint(v)
		}
		verts[i] = v
	}
	return NewPolygon(verts)
}

func (m *MeshPolygon) Kind() Kind { return KindMeshPolygon }

func (m *MeshPolygon) HitPart(r ray.Ray, rng ray.Range) (ray.Part, bool) {
	p, err := m.resolved()
	if err != nil {
		return ray.Part{}, false
	}
	return p.HitPart(r, rng)
}

func (m *MeshPolygon) CompletePart(part ray.Part) ray.Intersection {
	p, _ := m.resolved()
	return p.CompletePart(part)
}

func (m *MeshPolygon) HitAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	p, err := m.resolved()
	if err != nil {
		return nil
	}
	return p.HitAll(r, rng)
}

func (m *MeshPolygon) Area() vmath.Area {
	p, err := m.resolved()
	if err != nil {
		return 0
	}
	return p.Area()
}

func (m *MeshPolygon) BoundingBox() (BoundingBox, bool) {
	p, err := m.resolved()
	if err != nil {
		return BoundingBox{}, false
	}
	return p.BoundingBox()
}
