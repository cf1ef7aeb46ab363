// Package parser converts lines of arbitrary textual input into map events.
// Implementations are stateful but process exactly one line per call and
// recover from malformed input by emitting no event instead of failing.
package parser

import (
	"bufio"
	"fmt"
	"io"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
)

// Parser turns one line of input into at most one map event.
type Parser interface {
	// ParseLine handles the next line of input. A nil result means no
	// event for this line (malformed input, or the parser accumulates).
	ParseLine(line string) *event.MapEvent
	// Finalize is called once the complete input has been consumed.
	// Document parsers emit their accumulated result here.
	Finalize() *event.MapEvent
}

// Chain tries parsers in order of preference. The whole input goes to the
// first parser; the next one only gets a turn when the previous produced
// nothing. Buffering the lines keeps a permissive fallback from firing on
// fragments of input the preferred parser will handle as a document.
type Chain struct {
	parsers []Parser
	lines   []string
}

// NewChain builds a fallback chain over the given parsers.
func NewChain(parsers ...Parser) *Chain {
	return &Chain{parsers: parsers}
}

// ParseLine buffers the line until Finalize.
func (c *Chain) ParseLine(line string) *event.MapEvent {
	c.lines = append(c.lines, line)
	return nil
}

// Finalize replays the buffered input through each parser in order and
// returns the first non-empty result. A line parser used as fallback yields
// one event per matching line; those are folded into a single layer so one
// chain run produces one update.
func (c *Chain) Finalize() *event.MapEvent {
	lines := c.lines
	c.lines = nil

	for _, p := range c.parsers {
		var events []event.MapEvent
		for _, line := range lines {
			if ev := p.ParseLine(line); ev != nil {
				events = append(events, *ev)
			}
		}
		if ev := p.Finalize(); ev != nil {
			events = append(events, *ev)
		}
		switch len(events) {
		case 0:
		case 1:
			return &events[0]
		default:
			ev := mergeLayers(events)
			return &ev
		}
	}
	return nil
}

// mergeLayers folds per-line layer events into one layer named after the
// first.
func mergeLayers(events []event.MapEvent) event.MapEvent {
	merged := geo.NewLayer(events[0].Layer.Name)
	for _, ev := range events {
		if ev.Type == event.TypeLayer {
			merged.Shapes = append(merged.Shapes, ev.Layer.Shapes...)
		}
	}
	return event.NewLayer(merged)
}

// Consume feeds every line of r through p and calls emit for each event,
// including the Finalize result. A read error is returned without running
// Finalize, so a truncated document never turns into a layer update.
func Consume(r io.Reader, p Parser, emit func(event.MapEvent)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if ev := p.ParseLine(scanner.Text()); ev != nil {
			emit(*ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if ev := p.Finalize(); ev != nil {
		emit(*ev)
	}
	return nil
}
