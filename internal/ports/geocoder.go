package ports

import (
	"address-distance-service/internal/domain"
	"context"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Provider name used in logs and metrics.
	Name() string
	// Resolve the address; domain.ErrNoResult when the provider found nothing.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
