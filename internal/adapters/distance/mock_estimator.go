package distance

import (
	"address-distance-service/internal/domain"
	"context"
	"sync/atomic"
)

// MockEstimator returns a fixed distance or error and counts its calls.
type MockEstimator struct {
	Label  string
	Meters float64
	Err    error

	calls atomic.Int32
}

func (m *MockEstimator) Name() string {
	if m.Label == "" {
		return "mock"
	}
	return m.Label
}

func (m *MockEstimator) EstimateMeters(context.Context, domain.Coordinates, domain.Coordinates) (float64, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Meters, nil
}

func (m *MockEstimator) Calls() int { return int(m.calls.Load()) }
