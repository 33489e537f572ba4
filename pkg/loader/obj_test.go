package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/scene"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadOBJTriangleAndPolygon(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "cube.mtl", "newmtl red\nKd 1 0 0\n")
	objPath := writeTemp(t, dir, "shapes.obj", `mtllib cube.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
usemtl red
f 1 2 3
f 1 2 3 4
`)

	pool := &scene.EntityPool{}
	if err := LoadOBJ(objPath, pool); err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(pool.Shapes) != 2 {
		t.Fatalf("expected 2 faces loaded, got %d", len(pool.Shapes))
	}
	if _, ok := pool.Materials[0].(*material.Diffuse); !ok {
		t.Errorf("expected Kd-only material to map to Diffuse, got %T", pool.Materials[0])
	}
}

func TestMapMaterialHeuristic(t *testing.T) {
	red := color.New(1, 0, 0)
	tests := []struct {
		name string
		m    *MtlMaterial
		want string
	}{
		{"emissive", &MtlMaterial{Ke: &red}, "*material.Emissive"},
		{"diffuse", &MtlMaterial{Kd: &red}, "*material.Diffuse"},
		{"specular", &MtlMaterial{Ks: &red}, "*material.Specular"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mat, err := mapMaterial(tt.m)
			if err != nil {
				t.Fatalf("mapMaterial: %v", err)
			}
			if got := fmt.Sprintf("%T", mat); got != tt.want {
				t.Errorf("mapMaterial(%s) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestMapMaterialNilFallsBackToDiffuse(t *testing.T) {
	mat, err := mapMaterial(nil)
	if err != nil {
		t.Fatalf("mapMaterial(nil): %v", err)
	}
	if _, ok := mat.(*material.Diffuse); !ok {
		t.Errorf("mapMaterial(nil) = %T, want *material.Diffuse", mat)
	}
}
