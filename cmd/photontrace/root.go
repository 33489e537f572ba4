package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/photontrace/pkg/loader"
	"github.com/df07/photontrace/pkg/logctx"
	"github.com/df07/photontrace/pkg/render"
	"github.com/df07/photontrace/pkg/scene"
)

// cliConfig mirrors the teacher's main.go Config struct, promoted from
// flag.FlagSet to cobra persistent flags.
type cliConfig struct {
	SceneArg          string
	Width             int
	Iterations        int
	SppPerIteration   int
	MaxDepth          int
	MaxInvisibleDepth int
	PhotonsGlobal     int
	PhotonsCaustic    int
	InitialNumNearest int
	Seed              int64
	Output            string
}

func newRootCmd() *cobra.Command {
	cfg := &cliConfig{}

	cmd := &cobra.Command{
		Use:   "photontrace",
		Short: "Offline hybrid path tracer / photon mapper",
		Long: "photontrace renders one of the bundled example scenes, or a TOML scene\n" +
			"description (spec.md §6), with a hybrid path-tracing and photon-map\n" +
			"final-gather integrator, writing the result as a PNG.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.SceneArg, "scene", "cornell", "built-in scene name (cornell, teapot, diamond) or a path to a .toml scene file")
	flags.IntVar(&cfg.Width, "width", 400, "output image width in pixels (height follows the scene's camera aspect ratio)")
	flags.IntVar(&cfg.Iterations, "iterations", 5, "number of progressive passes")
	flags.IntVar(&cfg.SppPerIteration, "spp", 8, "samples per pixel per iteration")
	flags.IntVar(&cfg.MaxDepth, "max-depth", 8, "maximum path depth")
	flags.IntVar(&cfg.MaxInvisibleDepth, "max-invisible-depth", 8, "maximum depth for paths that can only hit lights via MIS")
	flags.IntVar(&cfg.PhotonsGlobal, "photons-global", 50000, "photons emitted per iteration into the global map")
	flags.IntVar(&cfg.PhotonsCaustic, "photons-caustic", 50000, "photons emitted per iteration into the caustic map")
	flags.IntVar(&cfg.InitialNumNearest, "initial-num-nearest", 50, "initial photon gather radius seed, in nearest-neighbor count")
	flags.Int64Var(&cfg.Seed, "seed", 1, "RNG seed")
	flags.StringVar(&cfg.Output, "output", "", "output PNG path (default: render_<scene>_<timestamp>.png)")

	return cmd
}

func run(cfg *cliConfig) error {
	log := logctx.NewZapLogger()

	builtScene, rcfg, aspect, err := loadScene(cfg)
	if err != nil {
		return fmt.Errorf("loading scene %q: %w", cfg.SceneArg, err)
	}

	w, h := render.ResolutionForAspect(cfg.Width, aspect)
	renderer, err := render.NewProgressiveRenderer(builtScene, rcfg, render.Resolution{Width: w, Height: h}, log)
	if err != nil {
		return fmt.Errorf("building renderer: %w", err)
	}

	start := time.Now()
	renderer.Run(cfg.Seed)
	log.Printf("render completed in %v", time.Since(start))

	outPath := cfg.Output
	if outPath == "" {
		outPath = fmt.Sprintf("render_%s_%d.png", sanitize(cfg.SceneArg), time.Now().Unix())
	}
	return writePNG(outPath, renderer.Accumulator().ToRGBA())
}

// loadScene resolves cfg.SceneArg to a built scene graph. A name
// matching one of the bundled examples takes precedence; anything
// else is treated as a TOML scene-description path (spec.md §6).
func loadScene(cfg *cliConfig) (*scene.Scene, render.Config, float64, error) {
	switch cfg.SceneArg {
	case "cornell":
		s, err := scene.Cornell()
		return s, cliRenderConfig(cfg), 1.0, err
	case "teapot":
		s, err := scene.Teapot(nil)
		return s, cliRenderConfig(cfg), 1.0, err
	case "diamond":
		s, err := scene.Diamond()
		return s, cliRenderConfig(cfg), 16.0 / 9.0, err
	default:
		return loader.LoadScene(cfg.SceneArg)
	}
}

func cliRenderConfig(cfg *cliConfig) render.Config {
	return render.Config{
		Iterations:        cfg.Iterations,
		SppPerIteration:   cfg.SppPerIteration,
		MaxDepth:          cfg.MaxDepth,
		MaxInvisibleDepth: cfg.MaxInvisibleDepth,
		PhotonsGlobal:     cfg.PhotonsGlobal,
		PhotonsCaustic:    cfg.PhotonsCaustic,
		InitialNumNearest: cfg.InitialNumNearest,
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '/' || r == '\\' || r == '.' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
