package parser

import (
	"testing"

	"github.com/UdHo/mapvas-sub001/internal/geo"
)

func TestGrepExtractsCoordinates(t *testing.T) {
	p := NewGrep(false)

	ev := p.ParseLine("route: 52.5200, 13.4050 then 48.8566, 2.3522 done")
	if ev == nil {
		t.Fatal("expected an event")
	}
	shape := ev.Layer.Shapes[0]
	if len(shape.Coordinates) != 2 {
		t.Fatalf("coordinates = %+v", shape.Coordinates)
	}
	if shape.Coordinates[0] != (geo.Coordinate{Lat: 52.52, Lon: 13.405}) {
		t.Errorf("first coordinate = %+v", shape.Coordinates[0])
	}
	if ev.Layer.Name != "grep" {
		t.Errorf("layer name = %q", ev.Layer.Name)
	}
}

func TestGrepInvertSwapsAxes(t *testing.T) {
	p := NewGrep(true)
	ev := p.ParseLine("13.4050, 52.5200")
	if ev == nil {
		t.Fatal("expected an event")
	}
	c := ev.Layer.Shapes[0].Coordinates[0]
	if c != (geo.Coordinate{Lat: 52.52, Lon: 13.405}) {
		t.Errorf("coordinate = %+v", c)
	}
}

func TestGrepStyleKeywordsStick(t *testing.T) {
	p := NewGrep(false)

	ev := p.ParseLine("red solid 1.0, 2.0")
	if s := ev.Layer.Shapes[0]; s.Color != geo.Red || s.Fill != geo.Solid {
		t.Errorf("style = %+v", s)
	}

	// A later line without keywords keeps the previous style.
	ev = p.ParseLine("3.0, 4.0")
	if s := ev.Layer.Shapes[0]; s.Color != geo.Red || s.Fill != geo.Solid {
		t.Errorf("style did not stick: %+v", s)
	}
}

func TestGrepNoCoordinates(t *testing.T) {
	p := NewGrep(false)
	tests := []string{
		"no coordinates here",
		"",
		"lat 1000.0, 2000.0 out of range",
	}
	for _, line := range tests {
		if ev := p.ParseLine(line); ev != nil {
			t.Errorf("line %q produced %+v", line, ev)
		}
	}
	if ev := p.Finalize(); ev != nil {
		t.Errorf("finalize emitted %+v", ev)
	}
}
