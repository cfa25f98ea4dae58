package services

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"address-distance-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DistanceResolver turns an address pair into a persisted LocationRecord.
//
// Geocoders and estimators are ordered fallback chains: each is tried in turn
// until one produces a usable value. The resolver is safe for concurrent use.
type DistanceResolver struct {
	geocoders  []ports.Geocoder
	estimators []ports.DistanceEstimator
	repo       ports.HistoryRepository
	clock      clockwork.Clock
	newID      func() string
	metrics    *obs.Metrics
	logger     *slog.Logger
}

func NewDistanceResolver(
	geocoders []ports.Geocoder,
	estimators []ports.DistanceEstimator,
	repo ports.HistoryRepository,
	clock clockwork.Clock,
	metrics *obs.Metrics,
	logger *slog.Logger,
) (*DistanceResolver, error) {
	if len(geocoders) == 0 {
		return nil, errors.New("distance resolver: at least one geocoder is required")
	}
	if len(estimators) == 0 {
		return nil, errors.New("distance resolver: at least one distance estimator is required")
	}
	if repo == nil {
		return nil, errors.New("distance resolver: history repository is required")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DistanceResolver{
		geocoders:  geocoders,
		estimators: estimators,
		repo:       repo,
		clock:      clock,
		newID:      func() string { return uuid.NewString() },
		metrics:    metrics,
		logger:     logger,
	}, nil
}

type sideResult struct {
	coords domain.Coordinates
	err    error
}

// Resolve geocodes both addresses, measures the distance between them and
// stores the result. Nothing is persisted when any step fails.
func (r *DistanceResolver) Resolve(ctx context.Context, source, destination string) (_ *domain.LocationRecord, err error) {
	defer obs.Time(ctx, "resolver.Resolve")(&err)
	defer func() { r.metrics.ObserveResolution(outcome(err)) }()

	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)

	if strings.EqualFold(source, destination) {
		return nil, domain.ErrSameAddress
	}

	// Both sides resolve concurrently; one failing does not cancel the other.
	var src, dst sideResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		src.coords, src.err = r.geocode(ctx, domain.SideSource, source)
	}()
	go func() {
		defer wg.Done()
		dst.coords, dst.err = r.geocode(ctx, domain.SideDestination, destination)
	}()
	wg.Wait()

	if src.err != nil {
		return nil, src.err
	}
	if dst.err != nil {
		return nil, dst.err
	}

	if src.coords.Equal(dst.coords) {
		return nil, domain.ErrSameLocation
	}

	meters, err := r.estimate(ctx, src.coords, dst.coords)
	if err != nil {
		return nil, err
	}

	rec := &domain.LocationRecord{
		ID:            r.newID(),
		Source:        domain.NewPlace(source, src.coords),
		Destination:   domain.NewPlace(destination, dst.coords),
		DistanceInKMs: domain.FormatKilometers(meters),
		CreatedAt:     r.clock.Now().UTC(),
	}

	if err := r.repo.Insert(ctx, rec); err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}

	return rec, nil
}

// geocode walks the geocoder chain for one side of the pair.
func (r *DistanceResolver) geocode(ctx context.Context, side domain.Side, address string) (domain.Coordinates, error) {
	var errs []error
	for _, g := range r.geocoders {
		c, err := g.Geocode(ctx, address)
		if err == nil {
			r.metrics.ObserveGeocode(g.Name(), "success")
			return c, nil
		}

		if errors.Is(err, domain.ErrNoResult) {
			r.metrics.ObserveGeocode(g.Name(), "empty")
		} else {
			r.metrics.ObserveGeocode(g.Name(), "error")
		}
		r.logger.WarnContext(ctx, "geocoder failed, trying next",
			"req_id", obs.RequestID(ctx),
			"provider", g.Name(),
			"side", side,
			"address", address,
			"error", err,
		)
		errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	return domain.Coordinates{}, &domain.GeocodeError{Side: side, Address: address, Err: errors.Join(errs...)}
}

// estimate walks the estimator chain. Only finite distances strictly above zero are accepted.
func (r *DistanceResolver) estimate(ctx context.Context, origin, destination domain.Coordinates) (float64, error) {
	var errs []error
	for _, e := range r.estimators {
		meters, err := e.EstimateMeters(ctx, origin, destination)
		switch {
		case err != nil:
			r.metrics.ObserveEstimate(e.Name(), "error")
		case !(meters > 0) || math.IsInf(meters, 0):
			r.metrics.ObserveEstimate(e.Name(), "invalid")
			err = fmt.Errorf("unusable distance %v", meters)
		default:
			r.metrics.ObserveEstimate(e.Name(), "success")
			return meters, nil
		}

		r.logger.WarnContext(ctx, "distance estimator failed, trying next",
			"req_id", obs.RequestID(ctx),
			"strategy", e.Name(),
			"origin", origin.String(),
			"destination", destination.String(),
			"error", err,
		)
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
	}

	return 0, fmt.Errorf("%w: %w", domain.ErrDistanceUnavailable, errors.Join(errs...))
}

func outcome(err error) string {
	var ve *domain.ValidationError
	var ge *domain.GeocodeError
	var pe *domain.PersistenceError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid_request"
	case errors.As(err, &ge):
		return "geocode_failed"
	case errors.Is(err, domain.ErrDistanceUnavailable):
		return "distance_unavailable"
	case errors.As(err, &pe):
		return "persistence_failed"
	default:
		return "error"
	}
}
