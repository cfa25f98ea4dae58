package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "address_distance"

// Metrics holds the Prometheus collectors for the resolution pipeline and HTTP layer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	GeocodeRequests    *prometheus.CounterVec   // labels: provider, outcome={success,error,empty}
	DistanceEstimates  *prometheus.CounterVec   // labels: strategy, outcome={success,error,invalid}
	Resolutions        *prometheus.CounterVec   // labels: outcome
	HTTPRequestSeconds *prometheus.HistogramVec // labels: method, route, status
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoder lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		DistanceEstimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_estimates_total",
			Help:      "Distance estimator calls by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Completed distance resolutions by outcome.",
		}, []string{"outcome"}),
		HTTPRequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.GeocodeRequests,
		m.DistanceEstimates,
		m.Resolutions,
		m.HTTPRequestSeconds,
	)

	return m
}

func (m *Metrics) ObserveGeocode(provider, outcome string) {
	if m == nil {
		return
	}
	m.GeocodeRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveEstimate(strategy, outcome string) {
	if m == nil {
		return
	}
	m.DistanceEstimates.WithLabelValues(strategy, outcome).Inc()
}

func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestSeconds.WithLabelValues(method, route, status).Observe(seconds)
}
