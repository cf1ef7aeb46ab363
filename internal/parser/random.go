package parser

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/UdHo/mapvas-sub001/internal/event"
	"github.com/UdHo/mapvas-sub001/internal/geo"
)

// Generator bounds. The random walk stays inside a margin of the geodetic
// range so single steps never need wrapping.
const (
	randLatLimit = 80
	randLonLimit = 179
)

// Random is a generative parser producing a wandering set of paths. It keeps
// a persistent cursor coordinate so consecutive lines continue the walk,
// which animates nicely on the viewer.
type Random struct {
	rng    *rand.Rand
	cursor geo.Coordinate
}

// NewRandom seeds the walk at a uniformly random coordinate.
func NewRandom() *Random {
	rng := rand.New(rand.NewSource(rand.Int63()))
	return &Random{
		rng: rng,
		cursor: geo.Coordinate{
			Lat: rng.Float64()*2*randLatLimit - randLatLimit,
			Lon: rng.Float64()*2*randLonLimit - randLonLimit,
		},
	}
}

func (r *Random) step() geo.Coordinate {
	r.cursor = geo.Coordinate{
		Lat: r.cursor.Lat + r.rng.Float64()*2 - 1,
		Lon: r.cursor.Lon + r.rng.Float64()*2 - 1,
	}.Clamp(-randLatLimit, randLatLimit, -randLonLimit, randLonLimit)
	return r.cursor
}

// ParseLine reads an integer n from the line (1 when unparsable) and emits
// one "random" layer holding n+1 random-length paths.
func (r *Random) ParseLine(line string) *event.MapEvent {
	steps, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || steps < 0 {
		steps = 1
	}

	layer := geo.NewLayer("random")
	palette := geo.Palette()

	for i := 0; i <= steps; i++ {
		length := r.rng.Intn(10)
		coords := []geo.Coordinate{r.cursor}
		for j := 1; j < length; j++ {
			coords = append(coords, r.step())
		}

		fill := geo.NoFill
		if r.rng.Float64() >= 0.8 {
			fill = geo.Transparent
		}

		layer.Shapes = append(layer.Shapes, geo.NewShape(coords...).
			WithColor(palette[r.rng.Intn(len(palette))]).
			WithFill(fill))
	}

	ev := event.NewLayer(layer)
	return &ev
}

// Finalize emits nothing; every line is self-contained.
func (r *Random) Finalize() *event.MapEvent {
	return nil
}
