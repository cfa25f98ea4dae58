package geocode

import (
	"address-distance-service/internal/domain"
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockGeocoder resolves addresses from a fixed table and records every lookup.
// Addresses missing from the table fail with Err, or domain.ErrNoResult when Err is nil.
type MockGeocoder struct {
	Label string
	Table map[string]domain.Coordinates
	Err   error

	mu    sync.Mutex
	calls []string
}

func NewMockGeocoder(label string, table map[string]domain.Coordinates) *MockGeocoder {
	return &MockGeocoder{Label: label, Table: table}
}

func (m *MockGeocoder) Name() string { return m.Label }

func (m *MockGeocoder) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	m.mu.Lock()
	m.calls = append(m.calls, address)
	m.mu.Unlock()

	if c, ok := m.Table[strings.ToLower(address)]; ok {
		return c, nil
	}
	if m.Err != nil {
		return domain.Coordinates{}, m.Err
	}
	return domain.Coordinates{}, fmt.Errorf("mock %s %q: %w", m.Label, address, domain.ErrNoResult)
}

// Calls returns the addresses looked up so far.
func (m *MockGeocoder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
