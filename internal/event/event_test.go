package event

import (
	"testing"

	"github.com/UdHo/mapvas-sub001/internal/geo"
)

func TestLayerEventRoundTrip(t *testing.T) {
	layer := geo.NewLayer("route")
	layer.Shapes = append(layer.Shapes, geo.NewShape(
		geo.Coordinate{Lat: 52.5, Lon: 13.4},
		geo.Coordinate{Lat: 52.6, Lon: 13.5},
	).WithColor(geo.Red).WithFill(geo.Transparent))

	data, err := NewLayer(layer).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Type != TypeLayer || back.Layer == nil {
		t.Fatalf("decoded %+v", back)
	}
	if back.Layer.Name != "route" || len(back.Layer.Shapes) != 1 {
		t.Errorf("layer payload = %+v", back.Layer)
	}
	if back.Layer.Shapes[0].Color != geo.Red || back.Layer.Shapes[0].Fill != geo.Transparent {
		t.Errorf("style lost: %+v", back.Layer.Shapes[0])
	}
}

func TestDecodeControlEvents(t *testing.T) {
	for _, typ := range []Type{TypeShutdown, TypeClear, TypeFocus} {
		ev, err := Decode([]byte(`{"type":"` + string(typ) + `"}`))
		if err != nil {
			t.Errorf("decode %s: %v", typ, err)
		}
		if ev.Type != typ {
			t.Errorf("decoded type %s, want %s", ev.Type, typ)
		}
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"shutdown","future_field":{"nested":true}}`))
	if err != nil {
		t.Fatalf("unknown fields must not be fatal: %v", err)
	}
	if ev.Type != TypeShutdown {
		t.Errorf("decoded type %s", ev.Type)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"garbage", "not json at all"},
		{"unknown type", `{"type":"explode"}`},
		{"empty type", `{}`},
		{"layer without payload", `{"type":"layer"}`},
		{"layer without name", `{"type":"layer","layer":{"shapes":[]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.body)); err == nil {
				t.Errorf("expected error for %q", tt.body)
			}
		})
	}
}
