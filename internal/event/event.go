// Package event defines the wire-level protocol between producers and the
// viewer: one MapEvent per request, JSON encoded and field-tagged so both
// sides can evolve independently.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/UdHo/mapvas-sub001/internal/geo"
)

// Type discriminates the MapEvent union.
type Type string

const (
	// TypeLayer adds or replaces one named layer.
	TypeLayer Type = "layer"
	// TypeShutdown terminates the viewer process.
	TypeShutdown Type = "shutdown"
	// TypeClear drops all layers from the viewer session.
	TypeClear Type = "clear"
	// TypeFocus asks the viewer to recenter on the current content.
	TypeFocus Type = "focus"
)

// MapEvent is a single instruction sent from a producer to the viewer.
// Layer is set only for TypeLayer events. Unknown fields in the wire form
// are ignored so newer producers can talk to older viewers.
type MapEvent struct {
	Type  Type       `json:"type"`
	Layer *geo.Layer `json:"layer,omitempty"`
}

// NewLayer wraps a layer update.
func NewLayer(l geo.Layer) MapEvent {
	return MapEvent{Type: TypeLayer, Layer: &l}
}

// Shutdown returns the viewer termination event.
func Shutdown() MapEvent {
	return MapEvent{Type: TypeShutdown}
}

// Clear returns the drop-all-layers event.
func Clear() MapEvent {
	return MapEvent{Type: TypeClear}
}

// Focus returns the recenter event.
func Focus() MapEvent {
	return MapEvent{Type: TypeFocus}
}

// Encode serializes the event to its wire form.
func (e MapEvent) Encode() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// Decode parses and validates one event from its wire form. A malformed body
// or an unrecognized type is an error the ingestion side rejects per request.
func Decode(data []byte) (MapEvent, error) {
	var e MapEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return MapEvent{}, fmt.Errorf("decode map event: %w", err)
	}
	if err := e.validate(); err != nil {
		return MapEvent{}, err
	}
	return e, nil
}

func (e MapEvent) validate() error {
	switch e.Type {
	case TypeLayer:
		if e.Layer == nil {
			return fmt.Errorf("layer event without layer payload")
		}
		if e.Layer.Name == "" {
			return fmt.Errorf("layer event with empty layer name")
		}
	case TypeShutdown, TypeClear, TypeFocus:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}
