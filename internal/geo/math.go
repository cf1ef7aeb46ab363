package geo

import "math"

// TileSize is the edge length of a rendered map tile in pixels.
const TileSize = 256

// MaxLat is the Web Mercator latitude cutoff; latitudes beyond it would
// project outside the square world map.
const MaxLat = 85.05112878

// Project converts a WGS84 coordinate to global pixel coordinates at the
// given zoom level using the Web Mercator projection.
//
// The world at zoom z is a square of 2^z * TileSize pixels; x grows east,
// y grows south. Latitude is clamped to [-MaxLat, MaxLat] first.
func Project(c Coordinate, zoom int) (x, y float64) {
	lat := c.Lat
	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	worldPx := float64(int(1)<<zoom) * TileSize
	x = (c.Lon + 180.0) / 360.0 * worldPx

	latRad := lat * math.Pi / 180.0
	mercY := math.Log(math.Tan(latRad) + 1.0/math.Cos(latRad))
	y = (1.0 - mercY/math.Pi) / 2.0 * worldPx

	return x, y
}

// TileAt returns the x/y tile indices containing the coordinate at the given
// zoom level, clamped to the valid tile grid.
func TileAt(c Coordinate, zoom int) (tx, ty int) {
	x, y := Project(c, zoom)
	tx = int(math.Floor(x / TileSize))
	ty = int(math.Floor(y / TileSize))

	maxIdx := int(1)<<zoom - 1
	if tx < 0 {
		tx = 0
	} else if tx > maxIdx {
		tx = maxIdx
	}
	if ty < 0 {
		ty = 0
	} else if ty > maxIdx {
		ty = maxIdx
	}
	return tx, ty
}
