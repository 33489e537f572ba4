package render

import (
	"math"

	"github.com/df07/photontrace/pkg/color"
)

// Resolution is the pixel dimensions of an Image.
type Resolution struct {
	Width, Height int
}

// tileSize is the blocking factor the teacher's Image buffer uses for
// its 2-D cell array (spec.md §3: "row-major-by-tile... tile size 2^3=8").
const tileSize = 8

// Image is a tiled 2-D array of linear radiance cells.
type Image struct {
	Resolution Resolution
	cells      []color.Spectrum
}

// NewImage allocates a black image of the given resolution.
func NewImage(res Resolution) *Image {
	tilesPerRow := (res.Width + tileSize - 1) / tileSize
	tilesPerCol := (res.Height + tileSize - 1) / tileSize
	return &Image{Resolution: res, cells: make([]color.Spectrum, tilesPerRow*tilesPerCol*tileSize*tileSize)}
}

func (img *Image) index(x, y int) int {
	tilesPerRow := (img.Resolution.Width + tileSize - 1) / tileSize
	tx, ty := x/tileSize, y/tileSize
	lx, ly := x%tileSize, y%tileSize
	tileIdx := ty*tilesPerRow + tx
	return tileIdx*tileSize*tileSize + ly*tileSize + lx
}

// At returns the cell at (x,y).
func (img *Image) At(x, y int) color.Spectrum {
	return img.cells[img.index(x, y)]
}

// Set overwrites the cell at (x,y).
func (img *Image) Set(x, y int, v color.Spectrum) {
	img.cells[img.index(x, y)] = v
}

// Observation is one progressive-photon-mapping accumulator for a
// single photon map (global or caustic) at one pixel (spec.md §3).
type Observation struct {
	Flux    color.Spectrum
	Count   float64 // N, the accumulated photon count basis
	Radius  float64 // current gather radius
	started bool
}

// ppmAlpha is the Hachisuka/Jensen progressive radius-reduction
// parameter (spec.md §4.8).
const ppmAlpha = 0.75

// Update folds in M newly gathered photons carrying flux newFlux at
// the current radius, then shrinks the radius by √ratio and scales
// flux by the same ratio (spec.md §4.8).
func (o *Observation) Update(initialRadius float64, m int, newFlux color.Spectrum) {
	if !o.started {
		o.Radius = initialRadius
		o.started = true
	}
	if m == 0 {
		return
	}
	mf := float64(m)
	newCount := o.Count + ppmAlpha*mf
	ratio := 1.0
	if o.Count+mf > 0 {
		ratio = newCount / (o.Count + mf)
	}
	o.Flux = o.Flux.Add(newFlux).Scale(ratio)
	o.Radius *= math.Sqrt(ratio)
	o.Count = newCount
}

// Radiance returns the current radiance estimate from this
// observation given the total number of photons emitted for its map
// (spec.md §4.8: flux / (π·r²·N_emitted)).
func (o *Observation) Radiance(totalEmitted int) color.Spectrum {
	if o.Radius <= 0 || totalEmitted <= 0 {
		return color.Black
	}
	denom := math.Pi * o.Radius * o.Radius * float64(totalEmitted)
	return o.Flux.Scale(1 / denom)
}

// Pixel is the per-pixel progressive state: a running-mean direct/
// indirect light estimate plus one Observation per photon map.
type Pixel struct {
	Light        color.Spectrum
	LightSamples int
	Global       Observation
	Caustic      Observation
}

// RecordLight folds a new light-path sample into the running mean.
// Record is associative and commutative over any permutation of
// inputs (spec.md §8), since it only depends on the running sum and
// count, not the order of arrival.
func (p *Pixel) RecordLight(v color.Spectrum) {
	p.LightSamples++
	p.Light = p.Light.Add(v.Sub(p.Light).Scale(1 / float64(p.LightSamples)))
}

// Accumulator wraps an Image and one Pixel state per cell.
type Accumulator struct {
	Image  *Image
	Pixels []Pixel
}

// NewAccumulator allocates an Accumulator for the given resolution.
func NewAccumulator(res Resolution) *Accumulator {
	return &Accumulator{
		Image:  NewImage(res),
		Pixels: make([]Pixel, res.Width*res.Height),
	}
}

func (a *Accumulator) pixelIndex(x, y int) int {
	return y*a.Image.Resolution.Width + x
}

// Pixel returns the progressive state for (x,y).
func (a *Accumulator) Pixel(x, y int) *Pixel {
	return &a.Pixels[a.pixelIndex(x, y)]
}

// Finalize writes each pixel's combined estimate (light running mean
// plus global/caustic photon radiance) into the Image.
func (a *Accumulator) Finalize(globalEmitted, causticEmitted int) {
	w, h := a.Image.Resolution.Width, a.Image.Resolution.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := a.Pixel(x, y)
			v := p.Light.
				Add(p.Global.Radiance(globalEmitted)).
				Add(p.Caustic.Radiance(causticEmitted))
			a.Image.Set(x, y, v)
		}
	}
}
