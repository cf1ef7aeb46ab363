package sender

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
)

// hostPort splits a httptest server URL into sender options.
func hostPort(t *testing.T, rawURL string) (string, int) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return u.Hostname(), port
}

func TestNewFindsRunningViewer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthcheck" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	host, port := hostPort(t, srv.URL)
	s, err := New(Options{
		Host: host,
		Port: port,
		Spawn: func([]string) error {
			t.Fatal("spawned a viewer although one is running")
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s == nil {
		t.Fatal("nil sender")
	}
}

func TestNewSpawnsAndWaits(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	// The fake viewer only starts listening when spawned, after a short
	// delay, so New has to retry the health check.
	spawned := false
	spawn := func(command []string) error {
		spawned = true
		if len(command) == 0 {
			t.Error("empty viewer command")
		}
		go func() {
			time.Sleep(100 * time.Millisecond)
			ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
			if err != nil {
				return
			}
			_ = http.Serve(ln, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
		}()
		return nil
	}

	s, err := New(Options{Host: "127.0.0.1", Port: port, MaxWait: 5 * time.Second, Spawn: spawn})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !spawned {
		t.Error("viewer was never spawned")
	}
	if s == nil {
		t.Fatal("nil sender")
	}
}

func TestNewGivesUpAfterMaxWait(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	start := time.Now()
	_, err = New(Options{
		Host:    "127.0.0.1",
		Port:    port,
		MaxWait: 300 * time.Millisecond,
		Spawn:   func([]string) error { return nil },
	})
	if err == nil {
		t.Fatal("expected error when no viewer comes up")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("New blocked %s, want bounded by MaxWait", elapsed)
	}
}

func TestNewSpawnFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	wantErr := "no such viewer binary"
	_, err = New(Options{
		Host:  "127.0.0.1",
		Port:  port,
		Spawn: func([]string) error { return &net.AddrError{Err: wantErr} },
	})
	if err == nil {
		t.Fatal("expected spawn error")
	}
}

func TestSendPostsEvent(t *testing.T) {
	var received event.MapEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/healthcheck":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/":
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusAccepted)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	host, port := hostPort(t, srv.URL)
	s, err := New(Options{Host: host, Port: port})
	if err != nil {
		t.Fatal(err)
	}

	layer := geo.NewLayer("route")
	layer.Shapes = []geo.Shape{geo.NewShape(geo.Coordinate{Lat: 52.5, Lon: 13.4})}
	if err := s.Send(context.Background(), event.NewLayer(layer)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received.Type != event.TypeLayer || received.Layer == nil || received.Layer.Name != "route" {
		t.Errorf("viewer received %+v", received)
	}
}

func TestSendSurfacesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthcheck" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "bad event", http.StatusBadRequest)
	}))
	defer srv.Close()

	host, port := hostPort(t, srv.URL)
	s, err := New(Options{Host: host, Port: port})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Send(context.Background(), event.Clear()); err == nil {
		t.Error("expected error for a rejected event")
	}
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	host, port := hostPort(t, srv.URL)
	s, err := New(Options{Host: host, Port: port})
	if err != nil {
		t.Fatal(err)
	}
	srv.Close()

	if err := s.Send(context.Background(), event.Clear()); err == nil {
		t.Error("expected transport error after the viewer went away")
	}
}
