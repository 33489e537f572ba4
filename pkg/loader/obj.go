// Package loader reads external scene descriptions: Wavefront OBJ/MTL
// meshes and TOML scene files, building the shape/material records
// pkg/scene's EntityPool expects. Grounded on the teacher's
// pkg/loaders (its PLY parser's header/body split and error style),
// generalized to OBJ/MTL since spec.md §6 names that as the mesh
// input format rather than PLY.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/scene"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

// objFace is a parsed `f` line: one vertex index per corner (0-based,
// already resolved from OBJ's 1-based/negative indexing).
type objFace struct {
	indices []int
	mtl     string
}

// MtlMaterial holds the subset of MTL fields spec.md §6's material
// heuristic inspects.
type MtlMaterial struct {
	Name string
	Kd   *color.Spectrum // diffuse
	Ks   *color.Spectrum // specular
	Ke   *color.Spectrum // emissive
	Km   *color.Spectrum // metalness tint (non-standard extension key some exporters emit)
	Ni   *float64        // index of refraction
	Ns   *float64        // specular exponent / "shininess" used here as inverse-roughness
	D    *float64        // dissolve (opacity); only its presence is used, to mark the material transmissive
	Tf   *color.Spectrum // transmission filter
}

// LoadOBJ parses an OBJ file and its referenced MTL library (if any),
// adding every face to pool as a standalone shape.Triangle/shape.Polygon per
// spec.md §6: 3-vertex faces become triangles, >3-vertex faces become
// polygons, and materials are resolved per the Ke/Ni/Ns/d/Tf/Km/Ks/Kd
// heuristic in mapMaterial.
func LoadOBJ(path string, pool *scene.EntityPool) error {
	f, err := os.Open(path)
	if err != nil {
		return buildutil.New(buildutil.ResourceLoad, fmt.Sprintf("loader: open %s: %v", path, err))
	}
	defer f.Close()

	var vertices []vmath.Point
	var faces []objFace
	mtlLibs := map[string]*MtlMaterial{}
	currentMtl := ""
	dir := dirOf(path)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVertex(fields[1:])
			if err != nil {
				return err
			}
			vertices = append(vertices, p)
		case "mtllib":
			if len(fields) < 2 {
				continue
			}
			mats, err := loadMTL(dir + "/" + fields[1])
			if err != nil {
				return err
			}
			for name, m := range mats {
				mtlLibs[name] = m
			}
		case "usemtl":
			if len(fields) >= 2 {
				currentMtl = fields[1]
			}
		case "f":
			idx, err := parseFace(fields[1:], len(vertices))
			if err != nil {
				return err
			}
			faces = append(faces, objFace{indices: idx, mtl: currentMtl})
		}
	}
	if err := scanner.Err(); err != nil {
		return buildutil.New(buildutil.ResourceLoad, fmt.Sprintf("loader: reading %s: %v", path, err))
	}

	matCache := map[string]material.Material{}
	for _, face := range faces {
		mat, ok := matCache[face.mtl]
		if !ok {
			built, err := mapMaterial(mtlLibs[face.mtl])
			if err != nil {
				return err
			}
			mat = built
			matCache[face.mtl] = mat
		}
		verts := make([]vmath.Point, len(face.indices))
		for i, vi := range face.indices {
			verts[i] = vertices[vi]
		}
		if len(verts) == 3 {
			tri, err := shape.NewTriangle(verts[0], verts[1], verts[2])
			if err != nil {
				return buildutil.New(buildutil.InvalidMesh, "loader: face would form an invalid triangle")
			}
			pool.Add(tri, mat)
		} else {
			poly, err := shape.NewPolygon(verts)
			if err != nil {
				return buildutil.New(buildutil.InvalidMesh, "loader: face would form an invalid polygon")
			}
			pool.Add(poly, mat)
		}
	}
	return nil
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return "."
}

func parseVertex(fields []string) (vmath.Point, error) {
	if len(fields) < 3 {
		return vmath.Point{}, buildutil.New(buildutil.ResourceLoad, "loader: malformed v line")
	}
	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	z, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return vmath.Point{}, buildutil.New(buildutil.ResourceLoad, "loader: malformed vertex coordinate")
	}
	return vmath.NewPoint(x, y, z), nil
}

// parseFace resolves OBJ's 1-based (and possibly negative, relative)
// vertex/texture/normal index groups ("v", "v/vt", "v/vt/vn",
// "v//vn") down to a 0-based vertex index per corner.
func parseFace(fields []string, vertexCount int) ([]int, error) {
	if len(fields) < 3 {
		return nil, buildutil.New(buildutil.InvalidMesh, "loader: face has fewer than 3 vertices")
	}
	idx := make([]int, len(fields))
	for i, f := range fields {
		vStr := strings.SplitN(f, "/", 2)[0]
		v, err := strconv.Atoi(vStr)
		if err != nil {
			return nil, buildutil.New(buildutil.ResourceLoad, "loader: malformed face index")
		}
		if v < 0 {
			v = vertexCount + v + 1
		}
		v--
		if v < 0 || v >= vertexCount {
			return nil, buildutil.New(buildutil.InvalidMesh, "loader: face index out of bounds")
		}
		idx[i] = v
	}
	return idx, nil
}

func loadMTL(path string) (map[string]*MtlMaterial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, buildutil.New(buildutil.ResourceLoad, fmt.Sprintf("loader: open %s: %v", path, err))
	}
	defer f.Close()

	out := map[string]*MtlMaterial{}
	var cur *MtlMaterial
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "newmtl":
			cur = &MtlMaterial{Name: fields[1]}
			out[cur.Name] = cur
		case "Kd":
			cur.Kd = parseRGB(fields[1:])
		case "Ks":
			cur.Ks = parseRGB(fields[1:])
		case "Ke":
			cur.Ke = parseRGB(fields[1:])
		case "Km":
			cur.Km = parseRGB(fields[1:])
		case "Tf":
			cur.Tf = parseRGB(fields[1:])
		case "Ni":
			v, _ := strconv.ParseFloat(fields[1], 64)
			cur.Ni = &v
		case "Ns":
			v, _ := strconv.ParseFloat(fields[1], 64)
			cur.Ns = &v
		case "d":
			v, _ := strconv.ParseFloat(fields[1], 64)
			cur.D = &v
		}
	}
	return out, nil
}

func parseRGB(fields []string) *color.Spectrum {
	if len(fields) < 3 {
		return nil
	}
	r, e1 := strconv.ParseFloat(fields[0], 64)
	g, e2 := strconv.ParseFloat(fields[1], 64)
	b, e3 := strconv.ParseFloat(fields[2], 64)
	if e1 != nil || e2 != nil || e3 != nil {
		return nil
	}
	s := color.New(r, g, b)
	return &s
}

// mapMaterial applies spec.md §6's MTL-to-internal-material heuristic:
// emissive if Ke; blurry if Ni+Ns+(d or Tf); refractive if Ni+(d or
// Tf); glossy if Km+Ns; specular if Ks; diffuse if Kd. Among the
// non-emissive rules only the first match in that order is used;
// further matches are not combined. An emissive Ke is stacked with
// that one component through Mixed.
func mapMaterial(m *MtlMaterial) (material.Material, error) {
	if m == nil {
		return material.NewDiffuse(texture.NewConstant(color.Gray(0.8)))
	}

	transmissive := m.D != nil || m.Tf != nil
	var components []material.BSDFMaterial
	var weights []float64
	var emissive *material.Emissive

	if m.Ke != nil && !m.Ke.IsBlack() {
		emissive = material.NewEmissive(texture.NewConstant(*m.Ke), false)
	}
	switch {
	case m.Ni != nil && m.Ns != nil && transmissive:
		b, err := material.NewBlurry(*m.Ni, roughnessFromNs(*m.Ns), tintOf(m))
		if err != nil {
			return nil, err
		}
		components, weights = append(components, b), append(weights, 1.0)
	case m.Ni != nil && transmissive:
		r, err := material.NewRefractive(*m.Ni, tintOf(m))
		if err != nil {
			return nil, err
		}
		components, weights = append(components, r), append(weights, 1.0)
	case m.Km != nil && m.Ns != nil:
		g, err := material.NewGlossy(*m.Km, 1.0, roughnessFromNs(*m.Ns))
		if err != nil {
			return nil, err
		}
		components, weights = append(components, g), append(weights, 1.0)
	case m.Ks != nil:
		components, weights = append(components, material.NewSpecular(texture.NewConstant(*m.Ks))), append(weights, 1.0)
	case m.Kd != nil:
		d, err := material.NewDiffuse(texture.NewConstant(*m.Kd))
		if err != nil {
			return nil, err
		}
		components, weights = append(components, d), append(weights, 1.0)
	}

	if len(components) == 0 {
		if emissive != nil {
			return emissive, nil
		}
		return material.NewDiffuse(texture.NewConstant(color.Gray(0.8)))
	}
	if len(components) == 1 && emissive == nil {
		return components[0], nil
	}
	return material.NewMixed(components, weights, emissive)
}

func roughnessFromNs(ns float64) float64 {
	// Ns is a specular exponent (higher = shinier); invert and clamp to
	// the microfacet roughness range (0,1] the GGX term expects.
	r := 1.0 / (1.0 + ns/64.0)
	if r <= 0 {
		return 1e-3
	}
	if r > 1 {
		return 1
	}
	return r
}

func tintOf(m *MtlMaterial) color.Spectrum {
	if m.Tf != nil {
		return *m.Tf
	}
	return color.Gray(0.95)
}
