package main

import (
	"context"
	"os"

	"github.com/UdHo/mapvas-sub001/internal/config"
	"github.com/UdHo/mapvas-sub001/internal/graceful"
	"github.com/UdHo/mapvas-sub001/internal/instance"
	"github.com/UdHo/mapvas-sub001/internal/logger"
	"github.com/UdHo/mapvas-sub001/internal/render"
	"github.com/UdHo/mapvas-sub001/internal/server"
	"github.com/UdHo/mapvas-sub001/internal/viewer"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE"    description:"Path to configuration file" default:"mapvas.yaml"`
	Addr       string `short:"a" long:"addr"     env:"LISTEN_ADDRESS" description:"Address to listen on (default 127.0.0.1)"`
	Port       int    `short:"p" long:"port"     env:"LISTEN_PORT"    description:"Port to listen on (default 12345)"`
	Zoom       int    `short:"z" long:"zoom"     env:"RENDER_ZOOM"    description:"Tile render zoom level (default 4)"`
	Windowed   bool   `short:"w" long:"windowed" description:"Run with the interactive map window"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config; explicitly given CLI flags win over file values
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg.Override(opts.Addr, opts.Port, opts.Zoom)
	if cfg.Port <= 0 {
		cfg.Port = server.DefaultPort
	}
	if cfg.LockPath == "" {
		cfg.LockPath = instance.DefaultPath()
	}

	// A second viewer on the same machine is fine, it just has nothing to
	// do. Exit without error.
	lock, ok, err := instance.Acquire(cfg.LockPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to acquire instance lock")
	}
	if !ok {
		log.Debug().Str("lock", cfg.LockPath).Msg("Viewer already running, exiting")
		return
	}
	defer func() { _ = lock.Release() }()

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	var pool *render.Pool
	if cfg.Workers > 0 {
		pool = render.NewPool(cfg.Workers)
	} else {
		pool = render.Default()
	}

	session := viewer.New(pool, cfg.Zoom, cfg.QueueSize)
	srv := server.NewServerContext(cfg.Addr, cfg.Port, session)

	log.Info().
		Str("addr", cfg.Addr).
		Int("port", cfg.Port).
		Int("zoom", cfg.Zoom).
		Bool("windowed", opts.Windowed).
		Msg("Viewer started")

	srvErr := make(chan error, 1)
	go func() {
		err := srv.Run(ctx)
		if err != nil {
			cancel()
		}
		srvErr <- err
	}()

	// The interactive window loop would run here; this process slice only
	// drains the event queue and keeps the tile cache warm.
	session.Run(ctx)
	cancel()

	if err := <-srvErr; err != nil {
		log.Fatal().Err(err).Msg("Ingestion server failed")
	}

	pool.Close()
	log.Info().Msg("Viewer stopped")
}
