package render

import "github.com/df07/photontrace/pkg/color"

// Contribution is what trace returns for one traced ray: a light
// (direct/emitted) spectrum plus photon-map final-gather flux for the
// global and caustic maps (spec.md §4.8). A zero Contribution
// contributes nothing to any term.
type Contribution struct {
	Light        color.Spectrum
	Global       color.Spectrum
	GlobalCount  int
	Caustic      color.Spectrum
	CausticCount int
}

// Add combines two contributions term-by-term.
func (c Contribution) Add(o Contribution) Contribution {
	return Contribution{
		Light:        c.Light.Add(o.Light),
		Global:       c.Global.Add(o.Global),
		GlobalCount:  c.GlobalCount + o.GlobalCount,
		Caustic:      c.Caustic.Add(o.Caustic),
		CausticCount: c.CausticCount + o.CausticCount,
	}
}

// Scale attenuates every term by a throughput factor (e.g. volumetric
// transmittance applied between the camera and the surface hit).
func (c Contribution) Scale(f color.Spectrum) Contribution {
	return Contribution{
		Light:        c.Light.Mul(f),
		Global:       c.Global.Mul(f),
		GlobalCount:  c.GlobalCount,
		Caustic:      c.Caustic.Mul(f),
		CausticCount: c.CausticCount,
	}
}
