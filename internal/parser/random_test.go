package parser

import (
	"strconv"
	"testing"

	"github.com/UdHo/mapvas-sub001/internal/event"
)

func TestRandomShapeCount(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"0", 1},
		{"1", 2},
		{"5", 6},
		{"42", 43},
		{"not a number", 2},
		{"", 2},
		{"-3", 2},
		{"  7  ", 8},
	}

	p := NewRandom()
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.line), func(t *testing.T) {
			ev := p.ParseLine(tt.line)
			if ev == nil || ev.Type != event.TypeLayer {
				t.Fatalf("expected layer event, got %+v", ev)
			}
			if ev.Layer.Name != "random" {
				t.Errorf("layer name = %q", ev.Layer.Name)
			}
			if got := len(ev.Layer.Shapes); got != tt.want {
				t.Errorf("shape count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRandomBoundsHoldUnderRepeatedMovement(t *testing.T) {
	p := NewRandom()
	for i := 0; i < 200; i++ {
		ev := p.ParseLine("10")
		for _, shape := range ev.Layer.Shapes {
			if len(shape.Coordinates) == 0 {
				t.Fatal("shape without coordinates")
			}
			for _, c := range shape.Coordinates {
				if c.Lat < -80 || c.Lat > 80 || c.Lon < -179 || c.Lon > 179 {
					t.Fatalf("coordinate out of generator bounds: %+v", c)
				}
			}
		}
	}
}

func TestRandomWalkContinues(t *testing.T) {
	p := NewRandom()
	first := p.ParseLine("3")
	second := p.ParseLine("3")

	// The first point of the next call is the cursor the previous call
	// ended on.
	prevShapes := first.Layer.Shapes
	last := prevShapes[len(prevShapes)-1]
	end := last.Coordinates[len(last.Coordinates)-1]
	start := second.Layer.Shapes[0].Coordinates[0]
	if start != end {
		t.Errorf("walk did not continue: ended at %+v, restarted at %+v", end, start)
	}
}

func TestRandomFinalize(t *testing.T) {
	if ev := NewRandom().Finalize(); ev != nil {
		t.Errorf("finalize emitted %+v", ev)
	}
}
