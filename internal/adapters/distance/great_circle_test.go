package distance

import (
	"address-distance-service/internal/domain"
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCoordinates(r *rand.Rand) domain.Coordinates {
	return domain.Coordinates{
		Lat: r.Float64()*180 - 90,
		Lon: r.Float64()*360 - 180,
	}
}

func TestGreatCircleMeters_Identity(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		a := randomCoordinates(r)
		assert.Zero(t, GreatCircleMeters(a, a), "point %v", a)
	}
}

func TestGreatCircleMeters_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		a, b := randomCoordinates(r), randomCoordinates(r)
		assert.InDelta(t, GreatCircleMeters(a, b), GreatCircleMeters(b, a), 1e-6, "pair %v %v", a, b)
	}
}

func TestGreatCircleMeters_Bounded(t *testing.T) {
	// Nothing on the sphere is farther than half its circumference.
	maxMeters := math.Pi * 6371 * 1000
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		d := GreatCircleMeters(randomCoordinates(r), randomCoordinates(r))
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, d, maxMeters+1e-6)
	}
}

func TestGreatCircleMeters_QuarterCircle(t *testing.T) {
	d := GreatCircleMeters(domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 90})
	assert.Equal(t, "10007.543", domain.FormatKilometers(d))
	assert.InDelta(t, 10007.5, d/1000, 0.1)
}

func TestGreatCircle_EstimateMeters(t *testing.T) {
	paris := domain.Coordinates{Lat: 48.8566, Lon: 2.3522}
	london := domain.Coordinates{Lat: 51.5074, Lon: -0.1278}

	m, err := GreatCircle{}.EstimateMeters(context.Background(), paris, london)
	require.NoError(t, err)
	assert.InDelta(t, 343_500, m, 1_000)
}

func TestGreatCircle_RejectsNonFinite(t *testing.T) {
	_, err := GreatCircle{}.EstimateMeters(
		context.Background(),
		domain.Coordinates{Lat: math.NaN(), Lon: 0},
		domain.Coordinates{Lat: 0, Lon: 0},
	)
	require.Error(t, err)
}
