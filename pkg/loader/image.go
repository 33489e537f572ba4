package loader

import (
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder

	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/texture"
)

// LoadImageTexture decodes an image file (PNG, JPEG, BMP, or TIFF,
// auto-detected from the header) into a texture.Image. Grounded on
// the teacher's pkg/loaders/image.go, generalized from PNG/JPEG-only
// to the wider codec set golang.org/x/image adds, per SPEC_FULL.md's
// domain stack entry for non-PNG texture formats.
func LoadImageTexture(path string) (*texture.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, buildutil.New(buildutil.ResourceLoad, "loader: open "+path+": "+err.Error())
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, buildutil.New(buildutil.ResourceLoad, "loader: decode "+path+": "+err.Error())
	}
	return texture.NewImage(img), nil
}
