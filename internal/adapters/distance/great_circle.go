package distance

import (
	"address-distance-service/internal/domain"
	"context"
	"fmt"
	"math"

	"github.com/umahmood/haversine"
)

// GreatCircleMeters returns the haversine distance between a and b on a
// sphere of radius 6371 km.
func GreatCircleMeters(a, b domain.Coordinates) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	return km * 1000
}

// GreatCircle is the offline fallback estimator. It performs no I/O.
type GreatCircle struct{}

func (GreatCircle) Name() string { return "great_circle" }

func (GreatCircle) EstimateMeters(
	_ context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (float64, error) {
	for _, v := range []float64{origin.Lat, origin.Lon, destination.Lat, destination.Lon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("great circle: non-finite coordinate %v", v)
		}
	}

	return GreatCircleMeters(origin, destination), nil
}
