package material

import (
	"math"
	"testing"

	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/texture"
	"github.com/df07/photontrace/pkg/vmath"
)

func TestNewMixedRejectsLengthMismatch(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	if _, err := NewMixed([]BSDFMaterial{diffuse}, []float64{0.5, 0.5}, nil); err == nil {
		t.Fatal("expected an error for mismatched components/weights lengths")
	}
}

func TestNewMixedRejectsNestedMixed(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	inner, err := NewMixed([]BSDFMaterial{diffuse}, []float64{1}, nil)
	if err != nil {
		t.Fatalf("build inner mixed: %v", err)
	}
	if _, err := NewMixed([]BSDFMaterial{inner}, []float64{1}, nil); err == nil {
		t.Fatal("expected an error for a nested Mixed component")
	}
}

func TestNewMixedRejectsDuplicateCategory(t *testing.T) {
	a, _ := NewDiffuse(texture.NewConstant(color.Gray(0.3)))
	b, _ := NewDiffuse(texture.NewConstant(color.Gray(0.7)))
	if _, err := NewMixed([]BSDFMaterial{a, b}, []float64{0.5, 0.5}, nil); err == nil {
		t.Fatal("expected an error for two components sharing CategoryDiffuse")
	}
}

func TestNewMixedRejectsTwoCategoryMixOtherThanDiffuseMicrofacet(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	specular := NewSpecular(texture.NewConstant(color.Gray(0.9)))
	if _, err := NewMixed([]BSDFMaterial{diffuse, specular}, []float64{0.5, 0.5}, nil); err == nil {
		t.Fatal("expected an error for a Diffuse+Specular mix (only Diffuse+Microfacet is legal)")
	}
}

func TestNewMixedRejectsThreeOrMoreCategories(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	specular := NewSpecular(texture.NewConstant(color.Gray(0.9)))
	glossy, err := NewGlossy(color.Gray(0.8), 0.5, 0.3)
	if err != nil {
		t.Fatalf("NewGlossy: %v", err)
	}
	if _, err := NewMixed([]BSDFMaterial{diffuse, specular, glossy}, []float64{1, 1, 1}, nil); err == nil {
		t.Fatal("expected an error for 3 non-emissive categories")
	}
}

func TestNewMixedRejectsNonPositiveWeightSum(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	glossy, err := NewGlossy(color.Gray(0.8), 0.5, 0.3)
	if err != nil {
		t.Fatalf("NewGlossy: %v", err)
	}
	if _, err := NewMixed([]BSDFMaterial{diffuse, glossy}, []float64{0, 0}, nil); err == nil {
		t.Fatal("expected an error for a zero weight sum")
	}
}

func TestNewMixedNormalizesWeights(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	glossy, err := NewGlossy(color.Gray(0.8), 0.5, 0.3)
	if err != nil {
		t.Fatalf("NewGlossy: %v", err)
	}
	m, err := NewMixed([]BSDFMaterial{diffuse, glossy}, []float64{1, 3}, nil)
	if err != nil {
		t.Fatalf("NewMixed: %v", err)
	}
	if math.Abs(m.Weights[0]-0.25) > 1e-9 || math.Abs(m.Weights[1]-0.75) > 1e-9 {
		t.Errorf("normalized weights = %v, want [0.25 0.75]", m.Weights)
	}
}

func TestMixedPdfBsdfIsWeightedAverage(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	glossy, err := NewGlossy(color.Gray(0.8), 0.5, 0.3)
	if err != nil {
		t.Fatalf("NewGlossy: %v", err)
	}
	m, err := NewMixed([]BSDFMaterial{diffuse, glossy}, []float64{1, 1}, nil)
	if err != nil {
		t.Fatalf("NewMixed: %v", err)
	}
	n := vmath.Normal{Z: 1}
	wo := vmath.NewDirection(vmath.UnitVector{Z: 1})
	wi := vmath.NewDirection(vmath.UnitVector{Z: 1})

	want := 0.5*diffuse.PdfBsdf(n, wo, wi) + 0.5*glossy.PdfBsdf(n, wo, wi)
	if got := m.PdfBsdf(n, wo, wi); math.Abs(got-want) > 1e-9 {
		t.Errorf("Mixed.PdfBsdf = %v, want %v", got, want)
	}
}

func TestMixedEmitDelegatesToEmissiveOrReturnsBlack(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	n := vmath.Normal{Z: 1}
	wo := vmath.NewDirection(vmath.UnitVector{Z: 1})

	withoutEmissive, err := NewMixed([]BSDFMaterial{diffuse}, []float64{1}, nil)
	if err != nil {
		t.Fatalf("NewMixed: %v", err)
	}
	if got := withoutEmissive.Emit(n, wo); !got.IsBlack() {
		t.Errorf("Emit with no Emissive component = %+v, want black", got)
	}

	glow := NewEmissive(texture.NewConstant(color.New(1, 1, 1)), false)
	withEmissive, err := NewMixed([]BSDFMaterial{diffuse}, []float64{1}, glow)
	if err != nil {
		t.Fatalf("NewMixed: %v", err)
	}
	if got := withEmissive.Emit(n, wo); got.IsBlack() {
		t.Errorf("Emit with an Emissive component = %+v, want non-black", got)
	}
}

func TestMixedSampleBsdfPicksAComponent(t *testing.T) {
	diffuse, _ := NewDiffuse(texture.NewConstant(color.Gray(0.5)))
	glossy, err := NewGlossy(color.Gray(0.8), 0.5, 0.3)
	if err != nil {
		t.Fatalf("NewGlossy: %v", err)
	}
	m, err := NewMixed([]BSDFMaterial{diffuse, glossy}, []float64{0.5, 0.5}, nil)
	if err != nil {
		t.Fatalf("NewMixed: %v", err)
	}
	n := vmath.Normal{Z: 1}
	wo := vmath.NewDirection(vmath.UnitVector{Z: 1})
	rng := sampling.NewRng(42)

	successes := 0
	for i := 0; i < 20; i++ {
		if _, ok := m.SampleBsdf(n, wo, rng); ok {
			successes++
		}
	}
	if successes == 0 {
		t.Fatal("SampleBsdf never succeeded across 20 draws")
	}
}
