package loader

import (
	"math/rand"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/medium"
	"github.com/df07/photontrace/pkg/render"
	"github.com/df07/photontrace/pkg/scene"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
	"github.com/df07/photontrace/pkg/volume"
)

// Document is the TOML scene description contract from spec.md §6: a
// camera, named registries of textures/materials/media, a flat list of
// entities, optional volume boundaries, a mesh to import, and the
// renderer configuration. Entities, volumes, meshes and checker
// textures refer to registry entries by name only; inline definitions
// at a reference site are not parsed.
type Document struct {
	Camera   CameraDoc              `toml:"camera"`
	Textures map[string]TextureDoc  `toml:"textures"`
	Materials map[string]MaterialDoc `toml:"materials"`
	Media    map[string]MediumDoc   `toml:"media"`
	Entities []EntityDoc            `toml:"entities"`
	Volumes  []VolumeDoc            `toml:"volumes"`
	Meshes   []MeshDoc              `toml:"meshes"`
	Renderer RendererDoc            `toml:"renderer"`
}

type CameraDoc struct {
	Origin      [3]float64 `toml:"origin"`
	Target      [3]float64 `toml:"target"`
	Up          [3]float64 `toml:"up"`
	VfovDeg     float64    `toml:"vfov_deg"`
	AspectRatio float64    `toml:"aspect_ratio"`
	FocalLength float64    `toml:"focal_length"`
}

type TextureDoc struct {
	Kind  string     `toml:"kind"` // "constant" | "checker" | "image"
	Color [3]float64 `toml:"color"`
	Odd   string     `toml:"odd"`
	Even  string     `toml:"even"`
	Scale float64    `toml:"scale"`
	Path  string     `toml:"path"` // image texture file (png/jpeg/bmp/tiff)
}

type MaterialDoc struct {
	Kind       string  `toml:"kind"` // diffuse|glossy|specular|refractive|blurry|emissive
	Albedo     string  `toml:"albedo"`
	Metalness  float64 `toml:"metalness"`
	Roughness  float64 `toml:"roughness"`
	IOR        float64 `toml:"ior"`
	Color      string  `toml:"color"`
	TwoSided   bool    `toml:"two_sided"`
}

type MediumDoc struct {
	Kind         string  `toml:"kind"` // "isotropic" | "henyey_greenstein"
	Albedo       [3]float64 `toml:"albedo"`
	MeanFreePath float64 `toml:"mean_free_path"`
	G            float64 `toml:"g"`
}

type EntityDoc struct {
	Shape    string     `toml:"shape"` // "sphere" | "triangle" | "polygon" | "aabb"
	Material string     `toml:"material"`
	Center   [3]float64 `toml:"center"`
	Radius   float64    `toml:"radius"`
	Min      [3]float64 `toml:"min"`
	Max      [3]float64 `toml:"max"`
	Vertices [][3]float64 `toml:"vertices"`
}

type VolumeDoc struct {
	Min    [3]float64 `toml:"min"`
	Max    [3]float64 `toml:"max"`
	Medium string     `toml:"medium"`
}

type MeshDoc struct {
	Path     string `toml:"path"`
	Material string `toml:"material"` // overrides MTL-derived materials when set
}

type RendererDoc struct {
	Iterations        int     `toml:"iterations"`
	SppPerIteration   int     `toml:"spp_per_iteration"`
	MaxDepth          int     `toml:"max_depth"`
	MaxInvisibleDepth int     `toml:"max_invisible_depth"`
	PhotonsGlobal     int     `toml:"photons_global"`
	PhotonsCaustic    int     `toml:"photons_caustic"`
	InitialNumNearest int     `toml:"initial_num_nearest"`
	Background        [3]float64 `toml:"background"`
}

// LoadScene reads a TOML scene description and builds a scene.Scene
// plus a render.Config ready for render.NewProgressiveRenderer. The
// returned aspect ratio comes from the document's camera block, for
// callers computing a resolution via render.ResolutionForAspect.
func LoadScene(path string) (*scene.Scene, render.Config, float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, render.Config{}, 0, buildutil.New(buildutil.ResourceLoad, "loader: "+err.Error())
	}
	var doc Document
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, render.Config{}, 0, buildutil.New(buildutil.ResourceLoad, "loader: toml: "+err.Error())
	}
	s, cfg, err := build(doc)
	return s, cfg, doc.Camera.AspectRatio, err
}

func build(doc Document) (*scene.Scene, render.Config, error) {
	textures := map[string]texture.Texture{}
	for name, td := range doc.Textures {
		t, err := buildTexture(td, textures)
		if err != nil {
			return nil, render.Config{}, err
		}
		textures[name] = t
	}

	materials := map[string]material.Material{}
	for name, md := range doc.Materials {
		m, err := buildMaterial(md, textures)
		if err != nil {
			return nil, render.Config{}, err
		}
		materials[name] = m
	}

	media := map[string]medium.Medium{}
	for name, mdoc := range doc.Media {
		m, err := buildMedium(mdoc)
		if err != nil {
			return nil, render.Config{}, err
		}
		media[name] = m
	}

	pool := &scene.EntityPool{}
	for _, ent := range doc.Entities {
		mat, ok := materials[ent.Material]
		if !ok {
			return nil, render.Config{}, buildutil.New(buildutil.ResourceLoad, "loader: unknown material \""+ent.Material+"\"")
		}
		if err := addEntity(pool, ent, mat); err != nil {
			return nil, render.Config{}, err
		}
	}
	for _, m := range doc.Meshes {
		first := len(pool.Materials)
		if err := LoadOBJ(m.Path, pool); err != nil {
			return nil, render.Config{}, err
		}
		if m.Material != "" {
			mat, ok := materials[m.Material]
			if !ok {
				return nil, render.Config{}, buildutil.New(buildutil.ResourceLoad, "loader: unknown material \""+m.Material+"\"")
			}
			for i := first; i < len(pool.Materials); i++ {
				pool.Materials[i] = mat
			}
		}
	}

	var vols []volume.Boundary
	for _, v := range doc.Volumes {
		med, ok := media[v.Medium]
		if !ok {
			return nil, render.Config{}, buildutil.New(buildutil.ResourceLoad, "loader: unknown medium \""+v.Medium+"\"")
		}
		box, err := shape.NewAabb(vec(v.Min), vec(v.Max))
		if err != nil {
			return nil, render.Config{}, err
		}
		vols = append(vols, volume.Boundary{Shape: box, Medium: med})
	}

	cam, err := render.NewCamera(vec(doc.Camera.Origin), vec(doc.Camera.Target),
		vmath.NewVector(doc.Camera.Up[0], doc.Camera.Up[1], doc.Camera.Up[2]),
		doc.Camera.VfovDeg, doc.Camera.AspectRatio, doc.Camera.FocalLength)
	if err != nil {
		return nil, render.Config{}, err
	}

	bg := color.New(doc.Renderer.Background[0], doc.Renderer.Background[1], doc.Renderer.Background[2])
	cfg := scene.Config{Pool: pool, Volumes: vols, Background: bg, Camera: cam}
	built := scene.New(cfg, newRand())

	rcfg := render.Config{
		Iterations:        doc.Renderer.Iterations,
		SppPerIteration:   doc.Renderer.SppPerIteration,
		MaxDepth:          doc.Renderer.MaxDepth,
		MaxInvisibleDepth: doc.Renderer.MaxInvisibleDepth,
		PhotonsGlobal:     doc.Renderer.PhotonsGlobal,
		PhotonsCaustic:    doc.Renderer.PhotonsCaustic,
		InitialNumNearest: doc.Renderer.InitialNumNearest,
	}
	return built, rcfg, rcfg.Validate()
}

func newRand() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }


func buildTexture(td TextureDoc, textures map[string]texture.Texture) (texture.Texture, error) {
	switch td.Kind {
	case "checker":
		odd, ok1 := textures[td.Odd]
		even, ok2 := textures[td.Even]
		if !ok1 || !ok2 {
			return nil, buildutil.New(buildutil.ResourceLoad, "loader: checker texture references unknown sub-texture")
		}
		return texture.NewChecker(odd, even, td.Scale), nil
	case "image":
		return LoadImageTexture(td.Path)
	default:
		return texture.NewConstant(color.New(td.Color[0], td.Color[1], td.Color[2])), nil
	}
}

func buildMaterial(md MaterialDoc, textures map[string]texture.Texture) (material.Material, error) {
	albedoTex := textures[md.Albedo]
	if albedoTex == nil {
		albedoTex = texture.NewConstant(color.Gray(0.8))
	}
	tint := color.Gray(0.95)
	if md.Color != "" {
		if t, ok := textures[md.Color]; ok {
			if c, ok := t.(*texture.Constant); ok {
				tint = c.Value
			}
		}
	}
	switch md.Kind {
	case "glossy":
		return material.NewGlossy(tint, md.Metalness, md.Roughness)
	case "specular":
		return material.NewSpecular(albedoTex), nil
	case "refractive":
		return material.NewRefractive(md.IOR, tint)
	case "blurry":
		return material.NewBlurry(md.IOR, md.Roughness, tint)
	case "emissive":
		return material.NewEmissive(albedoTex, md.TwoSided), nil
	default:
		return material.NewDiffuse(albedoTex)
	}
}

func buildMedium(md MediumDoc) (medium.Medium, error) {
	albedo := color.New(md.Albedo[0], md.Albedo[1], md.Albedo[2])
	if md.Kind == "henyey_greenstein" {
		return medium.NewHenyeyGreenstein(albedo, md.MeanFreePath, md.G)
	}
	return medium.NewIsotropic(albedo, md.MeanFreePath)
}

func addEntity(pool *scene.EntityPool, ent EntityDoc, mat material.Material) error {
	switch ent.Shape {
	case "sphere":
		s, err := shape.NewSphere(vec(ent.Center), ent.Radius)
		if err != nil {
			return err
		}
		pool.Add(s, mat)
	case "triangle":
		if len(ent.Vertices) != 3 {
			return buildutil.New(buildutil.InvalidGeometry, "loader: triangle entity needs exactly 3 vertices")
		}
		t, err := shape.NewTriangle(vec(ent.Vertices[0]), vec(ent.Vertices[1]), vec(ent.Vertices[2]))
		if err != nil {
			return err
		}
		pool.Add(t, mat)
	case "polygon":
		verts := make([]vmath.Point, len(ent.Vertices))
		for i, v := range ent.Vertices {
			verts[i] = vec(v)
		}
		p, err := shape.NewPolygon(verts)
		if err != nil {
			return err
		}
		pool.Add(p, mat)
	case "aabb":
		box, err := shape.NewAabb(vec(ent.Min), vec(ent.Max))
		if err != nil {
			return err
		}
		pool.Add(box, mat)
	default:
		return buildutil.New(buildutil.ResourceLoad, "loader: unknown entity shape \""+ent.Shape+"\"")
	}
	return nil
}

func vec(a [3]float64) vmath.Point { return vmath.NewPoint(a[0], a[1], a[2]) }
