package loader

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadImageTexturePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swatch.png")

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tex, err := LoadImageTexture(path)
	if err != nil {
		t.Fatalf("LoadImageTexture: %v", err)
	}
	if tex == nil {
		t.Fatal("expected non-nil texture")
	}
}

func TestLoadImageTextureMissingFile(t *testing.T) {
	if _, err := LoadImageTexture("/nonexistent/swatch.png"); err == nil {
		t.Fatal("expected an error for a missing image file")
	}
}
