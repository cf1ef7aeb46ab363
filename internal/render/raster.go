package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	"github.com/UdHo/mapvas-sub001/internal/geo"
)

// TileCoordinate represents a specific tile in the slippy-map grid.
type TileCoordinate struct {
	Z, X, Y int
}

func (t TileCoordinate) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Valid reports whether the tile indices exist at the zoom level.
func (t TileCoordinate) Valid() bool {
	if t.Z < 0 || t.Z > 24 {
		return false
	}
	max := 1 << t.Z
	return t.X >= 0 && t.X < max && t.Y >= 0 && t.Y < max
}

// maxCoveringTiles caps how many tiles one layer update re-renders.
const maxCoveringTiles = 64

// TilesCovering lists the tiles at the given zoom touched by the bounding
// box, capped at maxCoveringTiles to keep a single update's render work
// bounded.
func TilesCovering(minC, maxC geo.Coordinate, zoom int) []TileCoordinate {
	x0, y1 := geo.TileAt(geo.Coordinate{Lat: minC.Lat, Lon: minC.Lon}, zoom)
	x1, y0 := geo.TileAt(geo.Coordinate{Lat: maxC.Lat, Lon: maxC.Lon}, zoom)

	var tiles []TileCoordinate
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			tiles = append(tiles, TileCoordinate{Z: zoom, X: x, Y: y})
			if len(tiles) == maxCoveringTiles {
				return tiles
			}
		}
	}
	return tiles
}

// supersample renders at double resolution and downscales for antialiasing.
const supersample = 2

const transparentFillAlpha = 80

// Tile rasterizes the layer snapshots onto one webp tile. The caller hands
// over copies; nothing here touches shared mutable state.
func Tile(layers []geo.Layer, tc TileCoordinate) ([]byte, error) {
	if !tc.Valid() {
		return nil, fmt.Errorf("invalid tile %s", tc)
	}

	side := geo.TileSize * supersample
	canvas := image.NewRGBA(image.Rect(0, 0, side, side))

	originX := float64(tc.X * geo.TileSize)
	originY := float64(tc.Y * geo.TileSize)

	project := func(c geo.Coordinate) (float64, float64) {
		x, y := geo.Project(c, tc.Z)
		return (x - originX) * supersample, (y - originY) * supersample
	}

	for _, layer := range layers {
		for _, shape := range layer.Shapes {
			drawShape(canvas, shape, project)
		}
	}

	tile := image.NewRGBA(image.Rect(0, 0, geo.TileSize, geo.TileSize))
	xdraw.CatmullRom.Scale(tile, tile.Bounds(), canvas, canvas.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, tile, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode tile %s: %w", tc, err)
	}
	return buf.Bytes(), nil
}

type point struct{ x, y float64 }

func drawShape(canvas *image.RGBA, shape geo.Shape, project func(geo.Coordinate) (float64, float64)) {
	if len(shape.Coordinates) == 0 {
		return
	}

	pts := make([]point, len(shape.Coordinates))
	for i, c := range shape.Coordinates {
		pts[i].x, pts[i].y = project(c)
	}

	rgba := shape.Color.RGBA()

	if len(pts) >= 3 && shape.Fill != geo.NoFill {
		fillColor := rgba
		if shape.Fill == geo.Transparent {
			fillColor.A = transparentFillAlpha
		}
		fillPolygon(canvas, pts, fillColor)
	}

	if len(pts) == 1 {
		drawDot(canvas, pts[0], rgba)
		return
	}
	for i := 1; i < len(pts); i++ {
		drawLine(canvas, pts[i-1], pts[i], rgba)
	}
}

func drawDot(canvas *image.RGBA, p point, c color.RGBA) {
	r := 2 * supersample
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setPx(canvas, int(p.x)+dx, int(p.y)+dy, c)
			}
		}
	}
}

// drawLine plots a segment with a line width of one tile pixel (scaled by
// the supersample factor).
func drawLine(canvas *image.RGBA, a, b point, c color.RGBA) {
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(a.x + dx*t)
		y := int(a.y + dy*t)
		for oy := 0; oy < supersample; oy++ {
			for ox := 0; ox < supersample; ox++ {
				setPx(canvas, x+ox, y+oy, c)
			}
		}
	}
}

// fillPolygon runs an even-odd scanline fill over the closed polygon.
func fillPolygon(canvas *image.RGBA, pts []point, c color.RGBA) {
	minY, maxY := pts[0].y, pts[0].y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}
	bounds := canvas.Bounds()
	y0 := int(math.Max(minY, float64(bounds.Min.Y)))
	y1 := int(math.Min(maxY, float64(bounds.Max.Y-1)))

	for y := y0; y <= y1; y++ {
		scan := float64(y) + 0.5
		var xs []float64
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if (a.y <= scan) == (b.y <= scan) {
				continue
			}
			xs = append(xs, a.x+(scan-a.y)/(b.y-a.y)*(b.x-a.x))
		}
		sort.Float64s(xs)
		for i := 1; i < len(xs); i += 2 {
			for x := int(xs[i-1]); x <= int(xs[i]); x++ {
				blendPx(canvas, x, y, c)
			}
		}
	}
}

func setPx(canvas *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(canvas.Bounds()) {
		canvas.SetRGBA(x, y, c)
	}
}

func blendPx(canvas *image.RGBA, x, y int, c color.RGBA) {
	if !image.Pt(x, y).In(canvas.Bounds()) {
		return
	}
	if c.A == 255 {
		canvas.SetRGBA(x, y, c)
		return
	}
	dst := canvas.RGBAAt(x, y)
	a := uint32(c.A)
	canvas.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*(255-a)) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*(255-a)) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*(255-a)) / 255),
		A: uint8(a + uint32(dst.A)*(255-a)/255),
	})
}
