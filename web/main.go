// Command web is the example live-progress driver: it builds the
// Cornell example scene, wraps a render.ProgressiveRenderer, and
// streams partial PNG frames to a browser over a websocket each pass
// (spec.md §1 excludes a first-class web UI as a core deliverable;
// kept here as an external example driver per SPEC_FULL.md).
package main

import (
	"flag"
	"log"
	"net/http"
	"strconv"

	"github.com/df07/photontrace/pkg/logctx"
	"github.com/df07/photontrace/pkg/render"
	"github.com/df07/photontrace/pkg/scene"
	"github.com/df07/photontrace/web/server"
)

func main() {
	port := flag.Int("port", 8080, "port to serve on")
	iterations := flag.Int("iterations", 8, "progressive passes to stream")
	flag.Parse()

	log.Printf("Progressive Raytracer Web Server")

	s, err := scene.Cornell()
	if err != nil {
		log.Fatalf("building scene: %v", err)
	}

	cfg := render.Config{
		Iterations:        *iterations,
		SppPerIteration:   4,
		MaxDepth:          8,
		MaxInvisibleDepth: 8,
		PhotonsGlobal:     20000,
		PhotonsCaustic:    20000,
		InitialNumNearest: 50,
	}

	lg := logctx.NewZapLogger()
	renderer, err := render.NewProgressiveRenderer(s, cfg, render.Resolution{Width: 300, Height: 300}, lg)
	if err != nil {
		log.Fatalf("building renderer: %v", err)
	}

	srv := server.NewServer(renderer, lg)
	http.HandleFunc("/progress", srv.ServeProgress)

	addr := ":" + strconv.Itoa(*port)
	log.Printf("visit ws://localhost%s/progress to watch a render", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
