package domain

import "github.com/paulmach/orb"

// Immutable geographic coordinates in [lon, lat] order.
type Coordinates orb.Point

func (c Coordinates) Lon() float64 { return orb.Point(c).Lon() }

func (c Coordinates) Lat() float64 { return orb.Point(c).Lat() }

// Report whether the coordinates fall inside WGS84 lon/lat bounds.
func (c Coordinates) Valid() bool {
	return c.Lon() >= -180 && c.Lon() <= 180 && c.Lat() >= -90 && c.Lat() <= 90
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon(), c.Lat()} }
