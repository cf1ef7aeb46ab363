package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/UdHo/mapvas-sub001/internal/viewer"
)

// DefaultPort is the well-known local port shared by producers and the
// viewer. The sender's health check and the ingestion server both use it.
const DefaultPort = 12345

// maxEventBody bounds a single event submission.
const maxEventBody = 512 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	session *viewer.Session
	srv     *http.Server
}

// NewServerContext wires the ingestion routes onto the session's event
// queue and prepares the listener at addr:port.
func NewServerContext(addr string, port int, session *viewer.Session) *ServerContext {
	s := &ServerContext{session: session}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthcheck", s.HandleHealthcheck)
	mux.HandleFunc("/layers", s.HandleLayers)
	mux.HandleFunc("/tiles/", s.HandleTile)
	mux.HandleFunc("/", s.HandleEvent)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", addr, port),
		Handler:           RequestLogger(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the full route stack, mainly for tests.
func (s *ServerContext) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until the context is cancelled, then stops accepting new
// connections and lets in-flight requests complete. A bind failure is
// returned so the caller can terminate with a diagnostic.
func (s *ServerContext) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("Ingestion server listening")
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ingestion server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ingestion server shutdown: %w", err)
	}
	log.Info().Msg("Ingestion server stopped")
	return nil
}
