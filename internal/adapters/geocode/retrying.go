package geocode

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/retry"
	"address-distance-service/internal/ports"
	"context"
)

// Retrying re-issues every lookup of the wrapped geocoder under a retry policy.
// Not-found answers are retried like any other failure.
type Retrying struct {
	inner  ports.Geocoder
	policy retry.Policy
}

func NewRetrying(inner ports.Geocoder, policy retry.Policy) *Retrying {
	return &Retrying{inner: inner, policy: policy}
}

func (r *Retrying) Name() string { return r.inner.Name() }

func (r *Retrying) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	return retry.Do(ctx, r.policy, r.inner.Name()+".Geocode", func(ctx context.Context) (domain.Coordinates, error) {
		return r.inner.Geocode(ctx, address)
	})
}
