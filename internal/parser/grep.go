package parser

import (
	"regexp"
	"strconv"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
)

var (
	coordRe = regexp.MustCompile(`(-?\d*\.\d*), ?(-?\d*\.\d*)`)
	colorRe = regexp.MustCompile(`(?i)(blue|red|green|yellow|black|white|grey|brown)`)
	fillRe  = regexp.MustCompile(`(?i)(solid|transparent|nofill)`)
)

// Grep scans free-form text for "lat, lon" pairs and draws one path per
// line. Color and fill keywords found on a line change the style for that
// line and the lines after it.
type Grep struct {
	layerName string
	color     geo.Color
	fill      geo.FillStyle
	invert    bool
}

// NewGrep builds a grep parser. With invert set the matched pairs are read
// as "lon, lat" instead.
func NewGrep(invert bool) *Grep {
	return &Grep{layerName: "grep", color: geo.Blue, fill: geo.NoFill, invert: invert}
}

// WithColor sets the initial line color.
func (g *Grep) WithColor(c geo.Color) *Grep {
	g.color = c
	return g
}

// WithLayerName overrides the layer the parsed shapes land in.
func (g *Grep) WithLayerName(name string) *Grep {
	g.layerName = name
	return g
}

// ParseLine extracts style keywords and coordinates from one line. Lines
// without a single valid coordinate pair produce no event.
func (g *Grep) ParseLine(line string) *event.MapEvent {
	if m := colorRe.FindString(line); m != "" {
		if c, err := geo.ParseColor(m); err == nil {
			g.color = c
		}
	}
	if m := fillRe.FindString(line); m != "" {
		if f, err := geo.ParseFillStyle(m); err == nil {
			g.fill = f
		}
	}

	var coords []geo.Coordinate
	for _, m := range coordRe.FindAllStringSubmatch(line, -1) {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		c := geo.Coordinate{Lat: lat, Lon: lon}
		if g.invert {
			c.Lat, c.Lon = c.Lon, c.Lat
		}
		if c.Valid() {
			coords = append(coords, c)
		}
	}
	if len(coords) == 0 {
		return nil
	}

	layer := geo.NewLayer(g.layerName)
	layer.Shapes = append(layer.Shapes, geo.NewShape(coords...).
		WithColor(g.color).
		WithFill(g.fill))

	ev := event.NewLayer(layer)
	return &ev
}

// Finalize emits nothing; every line is self-contained.
func (g *Grep) Finalize() *event.MapEvent {
	return nil
}
