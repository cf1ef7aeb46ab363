// Package geo holds the geographic value types shared by producers and the
// viewer: coordinates, styles, shapes and layers. Pure data, no I/O.
package geo

// Coordinate is a geodetic WGS84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies in the regular geodetic range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Clamp returns the coordinate limited to the given bounds per axis.
// Out-of-range input is clamped, never wrapped.
func (c Coordinate) Clamp(latMin, latMax, lonMin, lonMax float64) Coordinate {
	if c.Lat < latMin {
		c.Lat = latMin
	} else if c.Lat > latMax {
		c.Lat = latMax
	}
	if c.Lon < lonMin {
		c.Lon = lonMin
	} else if c.Lon > lonMax {
		c.Lon = lonMax
	}
	return c
}
