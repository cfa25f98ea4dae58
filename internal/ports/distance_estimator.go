package ports

import (
	"address-distance-service/internal/domain"
	"context"
)

// Contract for measuring the distance in meters between two points.
type DistanceEstimator interface {
	// Strategy name used in logs and metrics.
	Name() string
	EstimateMeters(ctx context.Context, origin, destination domain.Coordinates) (float64, error)
}
