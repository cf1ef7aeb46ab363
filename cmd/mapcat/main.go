package main

import (
	"context"
	"os"
	"time"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
	"github.com/UdHo/mapvas-sub001/internal/graceful"
	"github.com/UdHo/mapvas-sub001/internal/logger"
	"github.com/UdHo/mapvas-sub001/internal/parser"
	"github.com/UdHo/mapvas-sub001/internal/sender"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Parser     string        `short:"P" long:"parser"    env:"MAPCAT_PARSER" description:"Input parser"                         default:"grep" choice:"grep" choice:"random" choice:"geojson" choice:"delimited"`
	Color      string        `short:"C" long:"color"     env:"MAPCAT_COLOR"  description:"Default shape color"                  default:"blue"`
	Layer      string        `short:"l" long:"layer"     description:"Layer name override"`
	Invert     bool          `short:"i" long:"invert-coordinates" description:"Read matched pairs as lon, lat (grep parser)"`
	Separator  string        `short:"s" long:"separator" description:"Field separator (delimited parser)"   default:","`
	LatField   int           `long:"lat-field"           description:"Latitude field index (delimited parser)"  default:"0"`
	LonField   int           `long:"lon-field"           description:"Longitude field index (delimited parser)" default:"1"`
	LabelField int           `long:"label-field"         description:"Label field index, -1 for none (delimited parser)" default:"-1"`
	Clear      bool          `long:"clear"               description:"Clear all layers before sending"`
	Focus      bool          `long:"focus"               description:"Focus the viewer on its content after sending"`
	Port       int           `short:"p" long:"port"      env:"MAPVAS_PORT"   description:"Viewer port"       default:"12345"`
	MaxWait    time.Duration `long:"max-wait"            description:"How long to wait for a spawned viewer" default:"30s"`
}

func buildParser(opts *Options, color geo.Color) parser.Parser {
	switch opts.Parser {
	case "random":
		return parser.NewRandom()
	case "geojson":
		p := parser.NewGeoJSON().WithColor(color)
		if opts.Layer != "" {
			p = p.WithLayerName(opts.Layer)
		}
		// Fall back to grepping coordinates out of non-GeoJSON input.
		return parser.NewChain(p, parser.NewGrep(opts.Invert).WithColor(color))
	case "delimited":
		sep := ','
		if opts.Separator != "" {
			sep = []rune(opts.Separator)[0]
		}
		name := opts.Layer
		if name == "" {
			name = "delimited"
		}
		fields := parser.FieldMap{Lat: opts.LatField, Lon: opts.LonField, Label: opts.LabelField}
		return parser.NewDelimited(sep, fields, name).WithColor(color)
	default:
		p := parser.NewGrep(opts.Invert).WithColor(color)
		if opts.Layer != "" {
			p = p.WithLayerName(opts.Layer)
		}
		return p
	}
}

func main() {
	var opts Options
	cli := flags.NewParser(&opts, flags.Default)
	if _, err := cli.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	color, err := geo.ParseColor(opts.Color)
	if err != nil {
		log.Warn().Str("color", opts.Color).Msg("Unknown color, falling back to blue")
		color = geo.Blue
	}

	p := buildParser(&opts, color)

	snd, err := sender.New(sender.Options{Port: opts.Port, MaxWait: opts.MaxWait})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reach a viewer")
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	if opts.Clear {
		if err := snd.Send(ctx, event.Clear()); err != nil {
			log.Error().Err(err).Msg("Failed to clear layers")
		}
	}

	sent, failed := 0, 0
	err = parser.Consume(os.Stdin, p, func(ev event.MapEvent) {
		if err := snd.Send(ctx, ev); err != nil {
			failed++
			log.Error().Err(err).Msg("Failed to send event")
			return
		}
		sent++
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	if opts.Focus {
		if err := snd.Send(ctx, event.Focus()); err != nil {
			log.Error().Err(err).Msg("Failed to send focus event")
		}
	}

	log.Info().Int("sent", sent).Int("failed", failed).Msg("Input consumed")
	if failed > 0 {
		os.Exit(1)
	}
}
