package geo

// Shape is an ordered run of coordinates with style attributes. A shape is
// built once via NewShape and the With* helpers and not mutated afterwards;
// it is owned by exactly one layer.
type Shape struct {
	Coordinates []Coordinate `json:"coordinates"`
	Color       Color        `json:"color,omitempty"`
	Fill        FillStyle    `json:"fill,omitempty"`
	Label       string       `json:"label,omitempty"`
}

// NewShape builds a shape with default style (blue outline, no fill).
func NewShape(coords ...Coordinate) Shape {
	return Shape{Coordinates: coords, Color: Blue, Fill: NoFill}
}

// WithColor returns a copy of the shape with the given color.
func (s Shape) WithColor(c Color) Shape {
	s.Color = c
	return s
}

// WithFill returns a copy of the shape with the given fill style.
func (s Shape) WithFill(f FillStyle) Shape {
	s.Fill = f
	return s
}

// WithLabel returns a copy of the shape with the given label.
func (s Shape) WithLabel(l string) Shape {
	s.Label = l
	return s
}

// Layer is a named, ordered collection of shapes treated as one update unit.
type Layer struct {
	Name   string  `json:"name"`
	Shapes []Shape `json:"shapes"`
}

// NewLayer builds an empty layer with the given name.
func NewLayer(name string) Layer {
	return Layer{Name: name}
}

// Bounds returns the bounding box over all shape coordinates and false when
// the layer holds no coordinates at all.
func (l Layer) Bounds() (minC, maxC Coordinate, ok bool) {
	first := true
	for _, s := range l.Shapes {
		for _, c := range s.Coordinates {
			if first {
				minC, maxC = c, c
				first = false
				continue
			}
			if c.Lat < minC.Lat {
				minC.Lat = c.Lat
			}
			if c.Lat > maxC.Lat {
				maxC.Lat = c.Lat
			}
			if c.Lon < minC.Lon {
				minC.Lon = c.Lon
			}
			if c.Lon > maxC.Lon {
				maxC.Lon = c.Lon
			}
		}
	}
	return minC, maxC, !first
}

// Clone returns a deep copy so render tasks can work on an immutable snapshot
// while the session keeps mutating its own state.
func (l Layer) Clone() Layer {
	out := Layer{Name: l.Name, Shapes: make([]Shape, len(l.Shapes))}
	for i, s := range l.Shapes {
		coords := make([]Coordinate, len(s.Coordinates))
		copy(coords, s.Coordinates)
		s.Coordinates = coords
		out.Shapes[i] = s
	}
	return out
}
