package parser

import (
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
)

// GeoJSON accumulates the whole input and decodes it as one GeoJSON document
// (FeatureCollection, Feature or bare Geometry) on Finalize.
type GeoJSON struct {
	layerName string
	color     geo.Color
	buf       strings.Builder
}

// NewGeoJSON builds a GeoJSON document parser.
func NewGeoJSON() *GeoJSON {
	return &GeoJSON{layerName: "geojson", color: geo.Blue}
}

// WithColor sets the color for geometries without their own styling.
func (g *GeoJSON) WithColor(c geo.Color) *GeoJSON {
	g.color = c
	return g
}

// WithLayerName overrides the layer the decoded shapes land in.
func (g *GeoJSON) WithLayerName(name string) *GeoJSON {
	g.layerName = name
	return g
}

// ParseLine buffers the line; GeoJSON documents usually span many lines.
func (g *GeoJSON) ParseLine(line string) *event.MapEvent {
	g.buf.WriteString(line)
	g.buf.WriteByte('\n')
	return nil
}

// Finalize decodes the buffered document. Undecodable input produces no
// event so a chained fallback parser can take over.
func (g *GeoJSON) Finalize() *event.MapEvent {
	data := []byte(g.buf.String())
	g.buf.Reset()
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var shapes []geo.Shape
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		for _, f := range fc.Features {
			shapes = append(shapes, g.geometryShapes(f.Geometry, featureLabel(f))...)
		}
	} else if f, err := geojson.UnmarshalFeature(data); err == nil {
		shapes = g.geometryShapes(f.Geometry, featureLabel(f))
	} else if geom, err := geojson.UnmarshalGeometry(data); err == nil {
		shapes = g.geometryShapes(geom, "")
	}
	if len(shapes) == 0 {
		return nil
	}

	layer := geo.NewLayer(g.layerName)
	layer.Shapes = shapes

	ev := event.NewLayer(layer)
	return &ev
}

func featureLabel(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	if name, err := f.PropertyString("name"); err == nil {
		return name
	}
	return ""
}

// geometryShapes flattens one GeoJSON geometry into styled shapes. GeoJSON
// positions are [lon, lat]; invalid positions are dropped.
func (g *GeoJSON) geometryShapes(geom *geojson.Geometry, label string) []geo.Shape {
	if geom == nil {
		return nil
	}

	path := func(positions [][]float64, fill geo.FillStyle) (geo.Shape, bool) {
		coords := make([]geo.Coordinate, 0, len(positions))
		for _, p := range positions {
			if len(p) < 2 {
				continue
			}
			c := geo.Coordinate{Lat: p[1], Lon: p[0]}
			if c.Valid() {
				coords = append(coords, c)
			}
		}
		if len(coords) == 0 {
			return geo.Shape{}, false
		}
		return geo.NewShape(coords...).WithColor(g.color).WithFill(fill).WithLabel(label), true
	}

	var shapes []geo.Shape
	add := func(s geo.Shape, ok bool) {
		if ok {
			shapes = append(shapes, s)
		}
	}

	switch geom.Type {
	case geojson.GeometryPoint:
		add(path([][]float64{geom.Point}, geo.NoFill))
	case geojson.GeometryMultiPoint:
		for _, p := range geom.MultiPoint {
			add(path([][]float64{p}, geo.NoFill))
		}
	case geojson.GeometryLineString:
		add(path(geom.LineString, geo.NoFill))
	case geojson.GeometryMultiLineString:
		for _, ls := range geom.MultiLineString {
			add(path(ls, geo.NoFill))
		}
	case geojson.GeometryPolygon:
		for _, ring := range geom.Polygon {
			add(path(ring, geo.Transparent))
		}
	case geojson.GeometryMultiPolygon:
		for _, poly := range geom.MultiPolygon {
			for _, ring := range poly {
				add(path(ring, geo.Transparent))
			}
		}
	case geojson.GeometryCollection:
		for _, sub := range geom.Geometries {
			shapes = append(shapes, g.geometryShapes(sub, label)...)
		}
	}
	return shapes
}
