// Package server handles HTTP ingestion for the viewer: health checks,
// event submission and serving rendered tiles.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/render"
)

// HandleHealthcheck always succeeds with an empty body while the viewer is
// up. Producers use it to detect a running instance.
func (s *ServerContext) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvent accepts one MapEvent per POST / and forwards it into the
// session queue. Malformed bodies are rejected per request and never reach
// the queue.
func (s *ServerContext) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	ev, err := event.Decode(body)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected event submission")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.session.Submit(ev)
	w.WriteHeader(http.StatusAccepted)
}

// HandleLayers serves a JSON summary of the current layer map.
func (s *ServerContext) HandleLayers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.session.Layers())
}

// HandleTile serves rendered tiles from the session cache.
// Path: /tiles/{z}/{x}/{y}.webp
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		http.NotFound(w, r)
		return
	}

	z, errZ := strconv.Atoi(parts[1])
	x, errX := strconv.Atoi(parts[2])
	y, errY := strconv.Atoi(strings.TrimSuffix(parts[3], ".webp"))
	if errZ != nil || errX != nil || errY != nil {
		http.NotFound(w, r)
		return
	}

	tc := render.TileCoordinate{Z: z, X: x, Y: y}
	data, ok := s.session.Tile(tc)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(data)
}
