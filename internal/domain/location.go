package domain

import (
	"fmt"
	"time"
)

// A named endpoint of a distance lookup, as persisted.
type Place struct {
	Name string
	Lat  float64
	Lng  float64
}

// NewPlace pairs the user-supplied name with its resolved coordinates.
func NewPlace(name string, c Coordinates) Place {
	return Place{Name: name, Lat: c.Lat, Lng: c.Lon}
}

// Represents a single computed distance between two addresses.
// A LocationRecord is created once per successful resolution, right before
// it is written to history, and is never mutated afterwards.
type LocationRecord struct {
	ID            string
	Source        Place
	Destination   Place
	DistanceInKMs string
	CreatedAt     time.Time
}

// FormatKilometers renders a distance in meters as kilometers fixed at 3 decimals.
func FormatKilometers(meters float64) string {
	return fmt.Sprintf("%.3f", meters/1000)
}

// One page of history, newest first.
type HistoryPage struct {
	Page         int
	Limit        int
	TotalRecords int
	TotalPages   int
	Records      []*LocationRecord
}
