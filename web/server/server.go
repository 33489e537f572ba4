// Package server is a thin external progress-viewer driver (spec.md
// §1 excludes a first-class web UI as a core deliverable; kept as an
// example driver per SPEC_FULL.md). It runs a render.ProgressiveRenderer
// pass by pass and pushes each pass's accumulated image to connected
// browsers over a websocket, replacing the teacher's SSE/tile-update
// protocol (pkg/web/server/server.go) with github.com/gorilla/websocket,
// the dependency onuse-worldgenerator_go carries for the same purpose.
package server

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/df07/photontrace/pkg/logctx"
	"github.com/df07/photontrace/pkg/render"
)

// Server drives a single ProgressiveRenderer and streams its
// per-iteration image to any connected viewer.
type Server struct {
	Renderer *render.ProgressiveRenderer
	Log      logctx.Logger

	upgrader websocket.Upgrader
}

// NewServer wraps a renderer for progress streaming. The renderer
// must not have had Run called yet; Server calls Run itself, one
// iteration at a time, so it can push a frame after each one.
func NewServer(r *render.ProgressiveRenderer, log logctx.Logger) *Server {
	return &Server{
		Renderer: r,
		Log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// progressMessage is the JSON envelope pushed after each iteration.
type progressMessage struct {
	Iteration int    `json:"iteration"`
	Total     int    `json:"total"`
	ImagePNG  string `json:"imagePng"` // base64-encoded PNG of the current partial image
}

// ServeProgress upgrades the connection to a websocket and runs the
// renderer's configured iterations, pushing one progressMessage per
// iteration and closing the connection once the final pass finalizes.
func (s *Server) ServeProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	total := s.Renderer.Config.Iterations
	for it := 0; it < total; it++ {
		s.Renderer.RunIteration(int64(it) * 104729)

		png, err := encodePNG(s.Renderer)
		if err != nil {
			s.Log.Printf("encoding progress frame: %v", err)
			return
		}
		msg := progressMessage{Iteration: it + 1, Total: total, ImagePNG: png}
		if err := conn.WriteJSON(msg); err != nil {
			s.Log.Printf("websocket write failed: %v", err)
			return
		}
	}
}

func encodePNG(r *render.ProgressiveRenderer) (string, error) {
	global, caustic := r.EmittedPhotonCounts()
	r.Accumulator().Finalize(global, caustic)
	img := r.Accumulator().ToRGBA()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
