// Package render implements the progressive photon-mapping driver of
// spec.md §4.8: per iteration, rebuild the global/caustic photon maps,
// then trace spp_per_iteration samples per pixel, accumulating with
// shrinking gather radii. Grounded on the teacher's
// pkg/renderer/progressive.go (pass loop, config merge idiom) and
// pkg/renderer/worker_pool.go (per-tile parallel dispatch), replacing
// the teacher's hand-rolled channel worker pool with
// github.com/alitto/pond/v2 per SPEC_FULL.md's domain-stack wiring.
package render

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/df07/photontrace/pkg/buildutil"
	"github.com/df07/photontrace/pkg/color"
	"github.com/df07/photontrace/pkg/logctx"
	"github.com/df07/photontrace/pkg/material"
	"github.com/df07/photontrace/pkg/photonmap"
	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/sampling"
	"github.com/df07/photontrace/pkg/vmath"
)

// Config holds the core renderer's tunables (spec.md §6).
type Config struct {
	Iterations        int
	SppPerIteration   int
	MaxDepth          int
	MaxInvisibleDepth int
	PhotonsGlobal     int
	PhotonsCaustic    int
	InitialNumNearest int
}

// Validate enforces spec.md §7's InvalidConfiguration rules.
func (c Config) Validate() error {
	switch {
	case c.Iterations < 1:
		return buildutil.New(buildutil.InvalidConfiguration, "iterations must be >= 1")
	case c.SppPerIteration < 1:
		return buildutil.New(buildutil.InvalidConfiguration, "spp_per_iteration must be >= 1")
	case c.MaxDepth < 1:
		return buildutil.New(buildutil.InvalidConfiguration, "max_depth must be >= 1")
	case c.MaxInvisibleDepth < 1 || c.MaxInvisibleDepth > c.MaxDepth:
		return buildutil.New(buildutil.InvalidConfiguration, "max_invisible_depth must be in [1, max_depth]")
	case c.PhotonsGlobal < 0 || c.PhotonsCaustic < 0:
		return buildutil.New(buildutil.InvalidConfiguration, "photon counts must be >= 0")
	case c.InitialNumNearest < 1:
		return buildutil.New(buildutil.InvalidConfiguration, "initial_num_nearest must be >= 1")
	}
	return nil
}

// ProgressiveRenderer couples a Scene, a Config, and an Accumulator
// into the iterative driver described by spec.md §4.8.
type ProgressiveRenderer struct {
	Scene  Scene
	Config Config
	Log    logctx.Logger

	acc          *Accumulator
	globalTree   *photonmap.Tree
	causticTree  *photonmap.Tree
	globalEmitN  int
	causticEmitN int
}

// NewProgressiveRenderer allocates a renderer with a black Accumulator
// sized to the scene's camera-implied resolution.
func NewProgressiveRenderer(scene Scene, cfg Config, res Resolution, log logctx.Logger) (*ProgressiveRenderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logctx.Nop{}
	}
	return &ProgressiveRenderer{
		Scene:  scene,
		Config: cfg,
		Log:    log,
		acc:    NewAccumulator(res),
	}, nil
}

// Accumulator exposes the renderer's pixel state for readers that
// want to inspect partial results between Run calls (e.g. a live
// preview driver).
func (r *ProgressiveRenderer) Accumulator() *Accumulator { return r.acc }

// EmittedPhotonCounts returns the running global/caustic photon
// totals emitted so far, the denominators RunIteration callers need
// to pass to Accumulator().Finalize for a correct partial preview.
func (r *ProgressiveRenderer) EmittedPhotonCounts() (global, caustic int) {
	return r.globalEmitN, r.causticEmitN
}

// Run executes Config.Iterations passes, each rebuilding the photon
// maps and then tracing spp_per_iteration samples per pixel in
// parallel, and leaves the final image in Accumulator().Image after
// Finalize.
func (r *ProgressiveRenderer) Run(seed int64) {
	numWorkers := runtime.NumCPU()
	pool := pond.NewPool(numWorkers)
	defer pool.StopAndWait()

	for it := 0; it < r.Config.Iterations; it++ {
		r.Log.Printf("iteration %d/%d: building photon maps", it+1, r.Config.Iterations)
		r.runIterationOnPool(pool, seed+int64(it)*7919, seed+int64(it)*104729)
	}
	r.acc.Finalize(r.globalEmitN, r.causticEmitN)
}

// RunIteration runs exactly one pass (photon map rebuild plus pixel
// trace) with its own worker pool, for callers that need to observe
// partial progress between passes (e.g. a live-preview driver). The
// caller is responsible for calling Accumulator().Finalize with the
// emitted-photon totals from EmittedPhotonCounts before reading the
// image.
func (r *ProgressiveRenderer) RunIteration(seed int64) {
	numWorkers := runtime.NumCPU()
	pool := pond.NewPool(numWorkers)
	defer pool.StopAndWait()
	r.runIterationOnPool(pool, seed, seed+52361)
}

func (r *ProgressiveRenderer) runIterationOnPool(pool pond.Pool, photonSeed, pixelSeed int64) {
	r.buildPhotonMaps(photonSeed)
	r.tracePixels(pool, pixelSeed)
}

// buildPhotonMaps emits Config.PhotonsGlobal/PhotonsCaustic photon
// paths and rebuilds the two k-d trees (spec.md §4.8 step 1).
func (r *ProgressiveRenderer) buildPhotonMaps(seed int64) {
	global := r.emitPhotons(r.Config.PhotonsGlobal, seed, false)
	caustic := r.emitPhotons(r.Config.PhotonsCaustic, seed+1, true)
	r.globalTree = photonmap.Build(global)
	r.causticTree = photonmap.Build(caustic)
	r.globalEmitN += r.Config.PhotonsGlobal
	r.causticEmitN += r.Config.PhotonsCaustic
}

func (r *ProgressiveRenderer) emitPhotons(count int, seed int64, causticOnly bool) []photonmap.Photon {
	if count == 0 {
		return nil
	}
	photons := r.Scene.Photons()
	var mu sync.Mutex
	var out []photonmap.Photon

	pool := pond.NewPool(runtime.NumCPU())
	for i := 0; i < count; i++ {
		i := i
		pool.Submit(func() {
			rng := sampling.NewRng(seed + int64(i))
			ps := photons.SamplePhoton(rng)
			if ps.Pdf <= 0 {
				return
			}
			throughput := ps.Power.Scale(1 / ps.Pdf)
			collected := r.tracePhoton(ray.Ray{Start: ps.Position, Direction: ps.Direction}, throughput, rng, causticOnly, false)
			if len(collected) > 0 {
				mu.Lock()
				out = append(out, collected...)
				mu.Unlock()
			}
		})
	}
	pool.StopAndWait()
	return out
}

// tracePhoton follows one photon path, storing it at diffuse/BSSRDF
// hits per the material contract (spec.md §4.3), Russian-roulette
// terminating on max-channel throughput.
func (r *ProgressiveRenderer) tracePhoton(rr ray.Ray, throughput color.Spectrum, rng *sampling.Rng, causticOnly, hadSpecular bool) []photonmap.Photon {
	var out []photonmap.Photon
	depth := 0
	for depth < r.Config.MaxDepth {
		depth++
		hit, mat, ok := r.Scene.Intersect(rr, ray.FullRange())
		if !ok {
			return out
		}
		bsdfMat, isBSDF := mat.(material.BSDFMaterial)
		if !isBSDF {
			return out
		}
		contract := mat.Contract()
		store := false
		switch {
		case !causticOnly && contract.StoresGlobal:
			store = true
		case causticOnly && contract.StoresCausticOnly && hadSpecular:
			store = true
		}
		if store {
			out = append(out, photonmap.Photon{Position: hit.Position, Direction: rr.Direction, Power: throughput})
		}

		if !contract.BouncesPhotonRR {
			return out
		}
		rrProb := throughput.MaxChannel()
		if rrProb <= 0 {
			return out
		}
		if rrProb < 1 && rng.Get1D() > rrProb {
			return out
		}
		if rrProb < 1 {
			throughput = throughput.Scale(1 / rrProb)
		}

		wo := vmath.NewDirection(rr.Direction.Negate())
		bounce, ok := bsdfMat.SampleBsdf(hit.Normal, wo, rng)
		if !ok || bounce.Pdf <= 0 {
			return out
		}
		cosTerm := absF(hit.Normal.Dot(bounce.Direction.Vector()))
		throughput = throughput.Mul(bounce.Attenuation).Scale(cosTerm / bounce.Pdf)
		if contract.MarksSpecular {
			hadSpecular = true
		}
		rr = ray.Ray{Start: hit.Position.Translate(bounce.Direction.Scale(1e-4)), Direction: bounce.Direction}
	}
	return out
}

// tracePixels submits one task per image row to the pool; each task
// traces spp jittered sub-pixel samples for every pixel of its row
// (spec.md §4.8 step 2).
func (r *ProgressiveRenderer) tracePixels(pool pond.Pool, seed int64) {
	w, h := r.acc.Image.Resolution.Width, r.acc.Image.Resolution.Height
	cam := r.Scene.Camera()
	var counter int64

	for y := 0; y < h; y++ {
		y := y
		pool.Submit(func() {
			for x := 0; x < w; x++ {
				n := atomic.AddInt64(&counter, 1)
				rng := sampling.NewRng(seed + n)
				pixel := r.acc.Pixel(x, y)
				for s := 0; s < r.Config.SppPerIteration; s++ {
					jx, jy := rng.Get2D()
					u := (float64(x) + jx) / float64(w)
					v := 1 - (float64(y)+jy)/float64(h)
					rr := cam.GetRay(u, v)
					contrib := r.trace(rr, rng, 1, false)
					pixel.RecordLight(contrib.Light)
					if contrib.GlobalCount > 0 {
						pixel.Global.Update(r.initialRadius(), contrib.GlobalCount, contrib.Global)
					}
					if contrib.CausticCount > 0 {
						pixel.Caustic.Update(r.initialRadius(), contrib.CausticCount, contrib.Caustic)
					}
				}
			}
		})
	}
	pool.StopAndWait()
}

func (r *ProgressiveRenderer) initialRadius() float64 {
	return 0.5
}

// trace implements spec.md §4.8 step 3-4: shade the surface hit (or
// the background), then attenuate the primary ray's result by the
// volume transmittance along the same segment. Volumetric
// in-scattering is not added.
func (r *ProgressiveRenderer) trace(rr ray.Ray, rng *sampling.Rng, depth int, specularParent bool) Contribution {
	if depth > r.Config.MaxDepth {
		return Contribution{}
	}
	hit, mat, ok := r.Scene.Intersect(rr, ray.FullRange())
	if !ok {
		bg := r.Scene.Background()
		return r.attenuateByVolume(rr, vmath.Distance(1e300), Contribution{Light: bg}, depth)
	}

	contrib := r.shade(rr, hit, mat, rng, depth, specularParent)
	return r.attenuateByVolume(rr, hit.Distance, contrib, depth)
}

// attenuateByVolume scales the contribution by the media transmittance
// over the segment from the ray origin up to the hit, only for the
// primary ray (spec.md §4.8 step 4). It adds no in-scattered radiance.
func (r *ProgressiveRenderer) attenuateByVolume(rr ray.Ray, dist vmath.Distance, contrib Contribution, depth int) Contribution {
	if depth > 1 {
		return contrib
	}
	agg := r.Scene.Volume(rr, ray.Range{Min: 0, Max: dist})
	if agg == nil {
		return contrib
	}
	return contrib.Scale(agg.Transmittance())
}

func (r *ProgressiveRenderer) shade(rr ray.Ray, hit ray.Intersection, mat material.Material, rng *sampling.Rng, depth int, specularParent bool) Contribution {
	var out Contribution
	wo := vmath.NewDirection(rr.Direction.Negate())

	if em, ok := mat.(material.EmissiveMaterial); ok {
		if depth == 1 || specularParent {
			out.Light = out.Light.Add(em.Emit(hit.Normal, wo))
		}
	}

	bsdfMat, isBSDF := mat.(material.BSDFMaterial)
	if !isBSDF {
		return out
	}
	contract := mat.Contract()

	if contract.SamplesLights {
		out.Light = out.Light.Add(r.directLighting(hit, bsdfMat, wo, rng))
	}

	if r.Config.PhotonsGlobal > 0 {
		flux, count := r.gatherPhotons(r.globalTree, hit, bsdfMat, wo)
		out.Global = out.Global.Add(flux)
		out.GlobalCount = count
	}
	if (contract.StoresCausticOnly || contract.MarksSpecular) && r.Config.PhotonsCaustic > 0 {
		flux, count := r.gatherPhotons(r.causticTree, hit, bsdfMat, wo)
		out.Caustic = out.Caustic.Add(flux)
		out.CausticCount = count
	}

	if depth >= r.Config.MaxDepth {
		return out
	}
	if depth > r.Config.MaxInvisibleDepth && !contract.MarksSpecular {
		return out
	}

	bounceHit := hit
	if scattering, isBSSRDF := mat.(*material.Scattering); isBSSRDF {
		exitPos, exitNormal, pdf, found := scattering.SampleEntry(hit.Position, hit.Normal, rng, probeAdapter{r.Scene})
		if !found || pdf <= 0 {
			return out
		}
		bounceHit = ray.Intersection{Position: exitPos, Normal: exitNormal, Distance: hit.Distance, Side: hit.Side}
	}

	bounce, ok := bsdfMat.SampleBsdf(bounceHit.Normal, wo, rng)
	if !ok || bounce.Pdf <= 0 {
		return out
	}
	throughput := bounce.Attenuation.Scale(absF(bounceHit.Normal.Dot(bounce.Direction.Vector())) / bounce.Pdf)
	if throughput.MaxChannel() <= 0 {
		return out
	}
	if depth > 3 {
		rrProb := throughput.MaxChannel()
		if rrProb < 1 {
			if rng.Get1D() > rrProb {
				return out
			}
			throughput = throughput.Scale(1 / rrProb)
		}
	}

	next := ray.Ray{Start: bounceHit.Position.Translate(bounce.Direction.Scale(1e-4)), Direction: bounce.Direction}
	sub := r.trace(next, rng, depth+1, bounce.IsSpecular)
	out = out.Add(sub.Scale(throughput))
	return out
}

// directLighting estimates direct illumination with MIS between a
// light sample and a BSDF sample, power heuristic β=2 (spec.md §4.3).
func (r *ProgressiveRenderer) directLighting(hit ray.Intersection, mat material.BSDFMaterial, wo vmath.Direction, rng *sampling.Rng) color.Spectrum {
	lights := r.Scene.Lights()
	if lights == nil {
		return color.Black
	}
	var sum color.Spectrum

	if ls, ok := lights.SampleLight(hit.Position, rng); ok && ls.Pdf > 0 {
		f := mat.Bsdf(hit.Normal, wo, ls.Direction)
		if !f.IsBlack() {
			occluded := r.occluded(hit.Position, ls.Direction, ls.Distance)
			if !occluded {
				bsdfPdf := mat.PdfBsdf(hit.Normal, wo, ls.Direction)
				weight := sampling.PowerHeuristic(1, ls.Pdf, 1, bsdfPdf)
				cosTerm := absF(hit.Normal.Dot(ls.Direction.Vector()))
				sum = sum.Add(f.Mul(ls.Radiance).Scale(weight * cosTerm / ls.Pdf))
			}
		}
	}

	if bounce, ok := mat.SampleBsdf(hit.Normal, wo, rng); ok && bounce.Pdf > 0 && !bounce.IsSpecular {
		lightPdf := lights.PdfLight(hit.Position, bounce.Direction)
		if lightPdf > 0 {
			testRay := ray.Ray{Start: hit.Position.Translate(bounce.Direction.Scale(1e-4)), Direction: bounce.Direction}
			if lhit, lmat, ok := r.Scene.Intersect(testRay, ray.FullRange()); ok {
				if em, ok := lmat.(material.EmissiveMaterial); ok {
					weight := sampling.PowerHeuristic(1, bounce.Pdf, 1, lightPdf)
					cosTerm := absF(hit.Normal.Dot(bounce.Direction.Vector()))
					wi := vmath.NewDirection(bounce.Direction.Negate())
					rad := em.Emit(lhit.Normal, wi)
					sum = sum.Add(bounce.Attenuation.Mul(rad).Scale(weight * cosTerm / bounce.Pdf))
				}
			}
		}
	}

	return sum
}

func (r *ProgressiveRenderer) occluded(from vmath.Point, dir vmath.Direction, dist vmath.Distance) bool {
	start := from.Translate(dir.Scale(1e-4))
	testRay := ray.Ray{Start: start, Direction: dir}
	rng := ray.Range{Min: 0, Max: dist - vmath.Distance(2e-4)}
	_, _, ok := r.Scene.Intersect(testRay, rng)
	return ok
}

// gatherPhotons estimates final-gather flux by k-nearest query
// (spec.md §4.3: "Flux estimate: Σ bsdf(photon.dir_in) · photon.throughput").
func (r *ProgressiveRenderer) gatherPhotons(tree *photonmap.Tree, hit ray.Intersection, mat material.BSDFMaterial, wo vmath.Direction) (color.Spectrum, int) {
	if tree == nil {
		return color.Black, 0
	}
	photons := tree.KNearest(hit.Position, r.Config.InitialNumNearest)
	var flux color.Spectrum
	for _, p := range photons {
		f := mat.Bsdf(hit.Normal, wo, vmath.NewDirection(p.Direction.Negate()))
		flux = flux.Add(f.Mul(p.Power))
	}
	return flux, len(photons)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
