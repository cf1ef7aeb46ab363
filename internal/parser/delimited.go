package parser

import (
	"strconv"
	"strings"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
)

// FieldMap states which zero-based record fields carry which value. The
// mapping from fields to an event is deliberately a configuration point, not
// a fixed algorithm; Label may be -1 when records carry no label field.
type FieldMap struct {
	Lat   int
	Lon   int
	Label int
}

// Delimited splits each line on a single-rune separator and maps fields to
// one point per record. Records accumulate into a single layer emitted on
// Finalize, so one input stream becomes one layer update.
type Delimited struct {
	sep       string
	fields    FieldMap
	layerName string
	color     geo.Color
	shapes    []geo.Shape
}

// NewDelimited builds a delimited-record parser.
func NewDelimited(sep rune, fields FieldMap, layerName string) *Delimited {
	return &Delimited{
		sep:       string(sep),
		fields:    fields,
		layerName: layerName,
		color:     geo.Blue,
	}
}

// WithColor sets the point color.
func (d *Delimited) WithColor(c geo.Color) *Delimited {
	d.color = c
	return d
}

// ParseLine parses one record. Records with missing or unparsable mapped
// fields, or out-of-range coordinates, are skipped.
func (d *Delimited) ParseLine(line string) *event.MapEvent {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), d.sep)

	maxIdx := d.fields.Lat
	if d.fields.Lon > maxIdx {
		maxIdx = d.fields.Lon
	}
	if d.fields.Label > maxIdx {
		maxIdx = d.fields.Label
	}
	if maxIdx >= len(fields) {
		return nil
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[d.fields.Lat]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[d.fields.Lon]), 64)
	if err != nil {
		return nil
	}
	c := geo.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return nil
	}

	shape := geo.NewShape(c).WithColor(d.color)
	if d.fields.Label >= 0 {
		shape = shape.WithLabel(strings.TrimSpace(fields[d.fields.Label]))
	}
	d.shapes = append(d.shapes, shape)
	return nil
}

// Finalize emits the accumulated layer, or nothing when no record parsed.
func (d *Delimited) Finalize() *event.MapEvent {
	if len(d.shapes) == 0 {
		return nil
	}
	layer := geo.NewLayer(d.layerName)
	layer.Shapes = d.shapes
	d.shapes = nil

	ev := event.NewLayer(layer)
	return &ev
}
