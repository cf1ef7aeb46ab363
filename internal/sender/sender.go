// Package sender is the producer-side client: it locates a running viewer
// through its health check, launches one when absent, and submits map
// events over HTTP.
package sender

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/server"
)

// Options configures sender construction. The zero value targets the
// default local viewer.
type Options struct {
	// Host and Port locate the viewer; defaults are localhost and the
	// shared default port.
	Host string
	Port int

	// ViewerCommand is spawned detached when no viewer answers the health
	// check. Defaults to launching the mapvas binary in windowed mode.
	ViewerCommand []string

	// MaxWait caps how long New polls the health check after spawning
	// before giving up with an error. Defaults to 30 seconds.
	MaxWait time.Duration

	// Spawn overrides process launching, used by tests.
	Spawn func(command []string) error
}

// Sender submits events to one viewer. It holds no mutable state and is
// safe to share across goroutines.
type Sender struct {
	baseURL string
	client  *http.Client
}

// New locates a healthy viewer, spawning and polling one if needed. It
// returns an error when no viewer turns healthy within the backoff window.
func New(opts Options) (*Sender, error) {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Port == 0 {
		opts.Port = server.DefaultPort
	}
	if len(opts.ViewerCommand) == 0 {
		opts.ViewerCommand = []string{"mapvas", "--windowed"}
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = 30 * time.Second
	}
	if opts.Spawn == nil {
		opts.Spawn = spawnDetached
	}

	s := &Sender{
		baseURL: fmt.Sprintf("http://%s:%d", opts.Host, opts.Port),
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	if err := s.healthCheck(); err == nil {
		return s, nil
	}

	log.Debug().Strs("command", opts.ViewerCommand).Msg("No viewer running, spawning one")
	if err := opts.Spawn(opts.ViewerCommand); err != nil {
		return nil, fmt.Errorf("spawn viewer: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = time.Second
	policy.MaxElapsedTime = opts.MaxWait

	if err := backoff.Retry(s.healthCheck, policy); err != nil {
		return nil, fmt.Errorf("viewer did not become healthy within %s: %w", opts.MaxWait, err)
	}
	return s, nil
}

// healthCheck treats any response as alive; connection failure means the
// viewer is not running. Recoverable by the retry loop, never surfaced
// directly.
func (s *Sender) healthCheck() error {
	resp, err := s.client.Get(s.baseURL + "/healthcheck")
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// Send serializes the event and posts it to the viewer. Both encoding and
// transport failures are returned to the caller instead of being swallowed.
func (s *Sender) Send(ctx context.Context, ev event.MapEvent) error {
	body, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit event: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("viewer rejected event: status %d", resp.StatusCode)
	}
	return nil
}

// spawnDetached launches the viewer in the background with its standard
// streams discarded so the producer's own stdio stays clean.
func spawnDetached(command []string) error {
	cmd := exec.Command(command[0], command[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child when it eventually exits; the producer does not wait
	// for it.
	go func() { _ = cmd.Wait() }()
	return nil
}
