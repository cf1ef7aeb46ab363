// Package viewer holds the per-process map state: the layer map fed by the
// ingestion queue and the cache of rendered tiles. The session is the single
// writer of the layer map; everything else reads snapshots.
package viewer

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
	"github.com/UdHo/mapvas-sub001/internal/render"
)

// Session consumes map events in arrival order and maintains the layer map
// for the lifetime of one viewer process.
//
// Layer update policy: submitting a layer whose name already exists replaces
// that layer's shape list wholesale.
type Session struct {
	queue chan event.MapEvent
	pool  *render.Pool
	zoom  int

	mu     sync.RWMutex
	layers map[string]geo.Layer

	tileMu sync.RWMutex
	tiles  map[render.TileCoordinate][]byte
}

// New builds a session rendering at the given zoom level through pool.
func New(pool *render.Pool, zoom, queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Session{
		queue:  make(chan event.MapEvent, queueSize),
		pool:   pool,
		zoom:   zoom,
		layers: make(map[string]geo.Layer),
		tiles:  make(map[render.TileCoordinate][]byte),
	}
}

// Submit hands an event across from the I/O domain. Events are delivered to
// the consumer in submission order (FIFO).
func (s *Session) Submit(ev event.MapEvent) {
	s.queue <- ev
}

// Run drains the queue until the context is cancelled or a Shutdown event
// arrives, then returns so the process can exit cleanly. Run must be the
// only goroutine mutating the layer map.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.queue:
			switch ev.Type {
			case event.TypeShutdown:
				log.Info().Msg("Shutdown event received")
				return
			case event.TypeLayer:
				s.applyLayer(*ev.Layer)
			case event.TypeClear:
				s.clear()
			case event.TypeFocus:
				// Recentering belongs to the interactive loop, which is
				// outside this process slice.
				log.Debug().Msg("Focus event ignored")
			}
		}
	}
}

func (s *Session) applyLayer(layer geo.Layer) {
	s.mu.Lock()
	s.layers[layer.Name] = layer.Clone()
	s.mu.Unlock()

	log.Debug().
		Str("layer", layer.Name).
		Int("shapes", len(layer.Shapes)).
		Msg("Layer updated")

	minC, maxC, ok := layer.Bounds()
	if !ok {
		return
	}
	s.renderTiles(render.TilesCovering(minC, maxC, s.zoom))
}

func (s *Session) clear() {
	s.mu.Lock()
	s.layers = make(map[string]geo.Layer)
	s.mu.Unlock()

	s.tileMu.Lock()
	s.tiles = make(map[render.TileCoordinate][]byte)
	s.tileMu.Unlock()

	log.Debug().Msg("Layers cleared")
}

// renderTiles snapshots the full layer set and queues one pool task per
// tile. Tasks work on the snapshot only, so concurrent session mutation
// cannot race rasterization.
func (s *Session) renderTiles(tiles []render.TileCoordinate) {
	snapshot := s.Snapshot()
	for _, tc := range tiles {
		tc := tc
		s.pool.Submit(func() {
			data, err := render.Tile(snapshot, tc)
			if err != nil {
				log.Error().Err(err).Str("tile", tc.String()).Msg("Failed to render tile")
				return
			}
			s.tileMu.Lock()
			s.tiles[tc] = data
			s.tileMu.Unlock()
		})
	}
}

// Snapshot returns deep copies of all layers in name order.
func (s *Session) Snapshot() []geo.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.layers))
	for name := range s.layers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]geo.Layer, 0, len(names))
	for _, name := range names {
		out = append(out, s.layers[name].Clone())
	}
	return out
}

// Layer returns a deep copy of one layer by name.
func (s *Session) Layer(name string) (geo.Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layers[name]
	if !ok {
		return geo.Layer{}, false
	}
	return l.Clone(), true
}

// Tile returns the rendered webp bytes of a tile, if cached.
func (s *Session) Tile(tc render.TileCoordinate) ([]byte, bool) {
	s.tileMu.RLock()
	defer s.tileMu.RUnlock()
	data, ok := s.tiles[tc]
	return data, ok
}

// LayerInfo summarizes one layer for the status route.
type LayerInfo struct {
	Name   string `json:"name"`
	Shapes int    `json:"shapes"`
}

// Layers lists layer summaries in name order.
func (s *Session) Layers() []LayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LayerInfo, 0, len(s.layers))
	for name, l := range s.layers {
		out = append(out, LayerInfo{Name: name, Shapes: len(l.Shapes)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
