package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// NewCoordinates validates the range of a lat/lon pair returned by a provider.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("new coordinates: latitude %v out of range [-90, 90]", lat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("new coordinates: longitude %v out of range [-180, 180]", lon)
	}

	return Coordinates{Lat: lat, Lon: lon}, nil
}

// Equal reports whether both points are the same pair.
func (c Coordinates) Equal(o Coordinates) bool { return c.Lat == o.Lat && c.Lon == o.Lon }

func (c Coordinates) String() string { return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lon) }
