package geo

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is one entry of the fixed drawing palette.
type Color string

const (
	Blue   Color = "blue"
	Red    Color = "red"
	Green  Color = "green"
	Yellow Color = "yellow"
	Black  Color = "black"
	White  Color = "white"
	Grey   Color = "grey"
	Brown  Color = "brown"
)

var palette = []Color{Blue, Red, Green, Yellow, Black, White, Grey, Brown}

// Palette returns the fixed palette in stable order. Callers must not modify
// the returned slice.
func Palette() []Color {
	return palette
}

// ParseColor resolves a case-insensitive color name.
func ParseColor(s string) (Color, error) {
	name := Color(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range palette {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown color %q", s)
}

var colorRGBA = map[Color]color.RGBA{
	Blue:   {0, 0, 255, 255},
	Red:    {255, 0, 0, 255},
	Green:  {0, 128, 0, 255},
	Yellow: {255, 255, 0, 255},
	Black:  {0, 0, 0, 255},
	White:  {255, 255, 255, 255},
	Grey:   {128, 128, 128, 255},
	Brown:  {150, 75, 0, 255},
}

// RGBA returns the display color. Unknown values render black.
func (c Color) RGBA() color.RGBA {
	if rgba, ok := colorRGBA[c]; ok {
		return rgba
	}
	return color.RGBA{0, 0, 0, 255}
}

// FillStyle controls how a closed shape is filled.
type FillStyle string

const (
	NoFill      FillStyle = "nofill"
	Transparent FillStyle = "transparent"
	Solid       FillStyle = "solid"
)

// ParseFillStyle resolves a case-insensitive fill style name.
func ParseFillStyle(s string) (FillStyle, error) {
	switch FillStyle(strings.ToLower(strings.TrimSpace(s))) {
	case NoFill:
		return NoFill, nil
	case Transparent:
		return Transparent, nil
	case Solid:
		return Solid, nil
	}
	return "", fmt.Errorf("unknown fill style %q", s)
}
