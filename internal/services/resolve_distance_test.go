package services

import (
	"address-distance-service/internal/adapters/distance"
	"address-distance-service/internal/adapters/geocode"
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"address-distance-service/internal/ports"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	newYork    = domain.Coordinates{Lat: 40.7128, Lon: -74.006}
	losAngeles = domain.Coordinates{Lat: 34.0522, Lon: -118.2437}
	paris      = domain.Coordinates{Lat: 48.8566, Lon: 2.3522}
)

// memRepo is an in-memory HistoryRepository.
type memRepo struct {
	mu      sync.Mutex
	records []*domain.LocationRecord
	err     error
}

func (m *memRepo) Insert(_ context.Context, rec *domain.LocationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memRepo) ListRecent(_ context.Context, offset, limit int) ([]*domain.LocationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	sorted := append([]*domain.LocationRecord(nil), m.records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	if offset >= len(sorted) {
		return []*domain.LocationRecord{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (m *memRepo) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return len(m.records), nil
}

func (m *memRepo) all() []*domain.LocationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.LocationRecord(nil), m.records...)
}

type fixture struct {
	primary   *geocode.MockGeocoder
	secondary *geocode.MockGeocoder
	routed    *distance.MockEstimator
	repo      *memRepo
	clock     *clockwork.FakeClock
	metrics   *obs.Metrics
	resolver  *DistanceResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		primary: geocode.NewMockGeocoder("primary", map[string]domain.Coordinates{
			"new york, usa":    newYork,
			"los angeles, usa": losAngeles,
		}),
		secondary: geocode.NewMockGeocoder("secondary", map[string]domain.Coordinates{}),
		routed:    &distance.MockEstimator{Label: "routed", Meters: 4489547},
		repo:      &memRepo{},
		clock:     clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		metrics:   obs.NewMetrics(prometheus.NewRegistry()),
	}

	r, err := NewDistanceResolver(
		[]ports.Geocoder{f.primary, f.secondary},
		[]ports.DistanceEstimator{f.routed, distance.GreatCircle{}},
		f.repo,
		f.clock,
		f.metrics,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	r.newID = func() string { return "fixed-id" }
	f.resolver = r

	return f
}

func TestResolve_RoutedDistance(t *testing.T) {
	f := newFixture(t)

	rec, err := f.resolver.Resolve(context.Background(), "  New York, USA ", "Los Angeles, USA")
	require.NoError(t, err)

	want := &domain.LocationRecord{
		ID:            "fixed-id",
		Source:        domain.Place{Name: "New York, USA", Lat: newYork.Lat, Lng: newYork.Lon},
		Destination:   domain.Place{Name: "Los Angeles, USA", Lat: losAngeles.Lat, Lng: losAngeles.Lon},
		DistanceInKMs: "4489.547",
		CreatedAt:     f.clock.Now(),
	}
	assert.Equal(t, want, rec)
	assert.Equal(t, []*domain.LocationRecord{want}, f.repo.all())
	assert.Empty(t, f.secondary.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Resolutions.WithLabelValues("ok")))
}

func TestResolve_SameNameRejectedBeforeGeocoding(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Resolve(context.Background(), "Paris", "paris")
	require.ErrorIs(t, err, domain.ErrSameAddress)

	assert.Empty(t, f.primary.Calls())
	assert.Empty(t, f.secondary.Calls())
	assert.Zero(t, f.routed.Calls())
	assert.Empty(t, f.repo.all())
}

func TestResolve_SecondaryGeocoderFallback(t *testing.T) {
	f := newFixture(t)
	f.primary.Table = map[string]domain.Coordinates{}
	f.primary.Err = errors.New("primary exhausted")
	f.secondary.Table = map[string]domain.Coordinates{
		"new york, usa": {Lat: 40.71, Lon: -74.01},
		"paris, france": paris,
	}

	rec, err := f.resolver.Resolve(context.Background(), "New York, USA", "Paris, France")
	require.NoError(t, err)

	assert.Equal(t, domain.Place{Name: "New York, USA", Lat: 40.71, Lng: -74.01}, rec.Source)
	assert.Equal(t, domain.Place{Name: "Paris, France", Lat: paris.Lat, Lng: paris.Lon}, rec.Destination)
	assert.ElementsMatch(t, []string{"New York, USA", "Paris, France"}, f.primary.Calls())
	assert.ElementsMatch(t, []string{"New York, USA", "Paris, France"}, f.secondary.Calls())
	require.Len(t, f.repo.all(), 1)
}

func TestResolve_GeocodeFailureNamesSide(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
		wantSide    domain.Side
	}{
		{name: "source", source: "Atlantis", destination: "Los Angeles, USA", wantSide: domain.SideSource},
		{name: "destination", source: "New York, USA", destination: "El Dorado", wantSide: domain.SideDestination},
		{name: "both reports source", source: "Atlantis", destination: "El Dorado", wantSide: domain.SideSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.resolver.Resolve(context.Background(), tt.source, tt.destination)

			var ge *domain.GeocodeError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, tt.wantSide, ge.Side)
			assert.ErrorIs(t, err, domain.ErrNoResult)
			assert.Zero(t, f.routed.Calls())
			assert.Empty(t, f.repo.all())
		})
	}
}

func TestResolve_SameCoordinatesRejected(t *testing.T) {
	f := newFixture(t)
	f.primary.Table["nyc"] = newYork

	_, err := f.resolver.Resolve(context.Background(), "New York, USA", "NYC")
	require.ErrorIs(t, err, domain.ErrSameLocation)
	assert.Zero(t, f.routed.Calls())
	assert.Empty(t, f.repo.all())
}

func TestResolve_FallsBackToGreatCircle(t *testing.T) {
	for name, routed := range map[string]*distance.MockEstimator{
		"error":    {Label: "routed", Err: domain.ErrNoRoute},
		"zero":     {Label: "routed", Meters: 0},
		"nan":      {Label: "routed", Meters: math.NaN()},
		"inf":      {Label: "routed", Meters: math.Inf(1)},
		"negative": {Label: "routed", Meters: -5},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.resolver.estimators[0] = routed

			rec, err := f.resolver.Resolve(context.Background(), "New York, USA", "Los Angeles, USA")
			require.NoError(t, err)

			want := domain.FormatKilometers(distance.GreatCircleMeters(newYork, losAngeles))
			assert.Equal(t, want, rec.DistanceInKMs)
			assert.Equal(t, "3935.746", rec.DistanceInKMs)
			assert.Equal(t, 1, routed.Calls())
		})
	}
}

func TestResolve_DistanceUnavailable(t *testing.T) {
	f := newFixture(t)
	f.resolver.estimators = []ports.DistanceEstimator{
		&distance.MockEstimator{Label: "routed", Err: errors.New("boom")},
		&distance.MockEstimator{Label: "fallback", Meters: math.NaN()},
	}

	_, err := f.resolver.Resolve(context.Background(), "New York, USA", "Los Angeles, USA")
	require.ErrorIs(t, err, domain.ErrDistanceUnavailable)
	assert.Empty(t, f.repo.all())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Resolutions.WithLabelValues("distance_unavailable")))
}

func TestResolve_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("disk full")

	_, err := f.resolver.Resolve(context.Background(), "New York, USA", "Los Angeles, USA")

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "disk full")
}

func TestResolve_GeocodesSidesConcurrently(t *testing.T) {
	f := newFixture(t)
	g := &blockingGeocoder{release: make(chan struct{}), started: make(chan string, 2)}
	f.resolver.geocoders = []ports.Geocoder{g}

	done := make(chan error, 1)
	go func() {
		_, err := f.resolver.Resolve(context.Background(), "A", "B")
		done <- err
	}()

	// Both lookups must be in flight before either is allowed to finish.
	got := []string{<-g.started, <-g.started}
	close(g.release)

	require.NoError(t, <-done)
	assert.ElementsMatch(t, []string{"A", "B"}, got)
}

type blockingGeocoder struct {
	release chan struct{}
	started chan string
}

func (b *blockingGeocoder) Name() string { return "blocking" }

func (b *blockingGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	b.started <- address
	select {
	case <-b.release:
	case <-ctx.Done():
		return domain.Coordinates{}, ctx.Err()
	}
	if address == "A" {
		return newYork, nil
	}
	return losAngeles, nil
}

func TestNewDistanceResolver_Validation(t *testing.T) {
	_, err := NewDistanceResolver(nil, []ports.DistanceEstimator{distance.GreatCircle{}}, &memRepo{}, nil, nil, nil)
	require.Error(t, err)

	_, err = NewDistanceResolver([]ports.Geocoder{geocode.NewMockGeocoder("g", nil)}, nil, &memRepo{}, nil, nil, nil)
	require.Error(t, err)

	_, err = NewDistanceResolver([]ports.Geocoder{geocode.NewMockGeocoder("g", nil)}, []ports.DistanceEstimator{distance.GreatCircle{}}, nil, nil, nil, nil)
	require.Error(t, err)
}
