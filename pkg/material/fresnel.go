package material

import (
	"math"

	"github.com/df07/photontrace/pkg/color"
)

// SchlickReflectance approximates the Fresnel reflectance at cosTheta
// for a given normal-incidence reflectance r0 (spec.md §4.3).
func SchlickReflectance(cosTheta, r0 float64) float64 {
	c := 1 - cosTheta
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	c5 := c * c * c * c * c
	return r0 + (1-r0)*c5
}

// SchlickSpectrum applies SchlickReflectance per channel for colored
// conductor Fresnel (metals).
func SchlickSpectrum(cosTheta float64, r0 color.Spectrum) color.Spectrum {
	return color.Spectrum{
		R: SchlickReflectance(cosTheta, r0.R),
		G: SchlickReflectance(cosTheta, r0.G),
		B: SchlickReflectance(cosTheta, r0.B),
	}
}

// DielectricR0 is the baseline normal-incidence reflectance for a
// non-metal, interpolated toward an albedo by metalness (spec.md §4.3).
func DielectricR0(albedo color.Spectrum, metalness float64) color.Spectrum {
	base := color.Gray(0.04)
	return base.Lerp(albedo, metalness)
}

// FresnelDielectric computes the unpolarized Fresnel reflectance for a
// dielectric interface with relative index eta = n_transmit/n_incident,
// used by Refractive/Blurry materials. Returns reflectance and whether
// total internal reflection occurred.
func FresnelDielectric(cosThetaI, eta float64) (reflectance float64, tir bool) {
	ci := cosThetaI
	if ci < -1 {
		ci = -1
	}
	if ci > 1 {
		ci = 1
	}
	if ci < 0 {
		eta = 1 / eta
		ci = -ci
	}
	sin2ThetaT := (1 - ci*ci) / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1, true
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	rParl := (eta*ci - cosThetaT) / (eta*ci + cosThetaT)
	rPerp := (ci - eta*cosThetaT) / (ci + eta*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2, false
}

// MetalR0 holds the predefined Schlick r0 constants for 13 named
// metals, per spec.md §4.3 ("Glossy material's reflectance constants
// for 13 predefined metals are tabulated").
var MetalR0 = map[string]color.Spectrum{
	"aluminum":  {R: 0.913, G: 0.922, B: 0.924},
	"brass":     {R: 0.887, G: 0.789, B: 0.434},
	"copper":    {R: 0.955, G: 0.637, B: 0.538},
	"gold":      {R: 1.000, G: 0.766, B: 0.336},
	"iron":      {R: 0.560, G: 0.570, B: 0.580},
	"lead":      {R: 0.630, G: 0.610, B: 0.600},
	"mercury":   {R: 0.781, G: 0.780, B: 0.778},
	"platinum":  {R: 0.673, G: 0.637, B: 0.585},
	"silver":    {R: 0.972, G: 0.960, B: 0.915},
	"titanium":  {R: 0.542, G: 0.497, B: 0.449},
	"zinc":      {R: 0.664, G: 0.824, B: 0.850},
	"chromium":  {R: 0.550, G: 0.556, B: 0.554},
	"nickel":    {R: 0.660, G: 0.609, B: 0.526},
}
