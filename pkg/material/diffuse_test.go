package material

import (
	"math"
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestNewDiffuseRejectsNilAlbedo(t *testing.T) {
	if _, err := NewDiffuse(nil); err == nil {
		t.Fatal("expected an error for a nil albedo texture")
	}
}

func TestDiffuseBsdfIsZeroAcrossTheSurface(t *testing.T) {
	d, err := NewDiffuse(texture.NewConstant(color.New(0.8, 0.2, 0.2)))
	if err != nil {
		t.Fatalf("NewDiffuse: %v", err)
	}
	n := vmath.Normal{Z: 1}
	wo := vmath.NewDirection(vmath.UnitVector{Z: 1})
	wiBelow := vmath.NewDirection(vmath.UnitVector{Z: -1})

	if got := d.Bsdf(n, wo, wiBelow); !got.IsBlack() {
		t.Errorf("Bsdf across the surface = %+v, want black", got)
	}
}

func TestDiffuseSampleBsdfStaysInHemisphereAndMatchesPdf(t *testing.T) {
	d, err := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	if err != nil {
		t.Fatalf("NewDiffuse: %v", err)
	}
	n := vmath.Normal{Z: 1}
	wo := vmath.NewDirection(vmath.UnitVector{Z: 1})
	rng := sampling.NewRng(7)

	for i := 0; i < 20; i++ {
		bs, ok := d.SampleBsdf(n, wo, rng)
		if !ok {
			t.Fatal("SampleBsdf reported failure")
		}
		if bs.Direction.Z <= 0 {
			t.Errorf("sampled direction left the upper hemisphere: %+v", bs.Direction)
		}
		wantPdf := d.PdfBsdf(n, wo, bs.Direction)
		if math.Abs(bs.Pdf-wantPdf) > 1e-9 {
			t.Errorf("SampleBsdf pdf = %v, want PdfBsdf() = %v", bs.Pdf, wantPdf)
		}
	}
}

func TestDiffuseContractSamplesLightsAndStoresGlobal(t *testing.T) {
	d, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	c := d.Contract()
	if !c.SamplesLights || !c.StoresGlobal {
		t.Errorf("diffuse contract = %+v, want SamplesLights and StoresGlobal", c)
	}
}
