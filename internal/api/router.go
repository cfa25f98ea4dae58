package api

import (
	"address-distance-service/internal/api/handlers"
	"address-distance-service/internal/platform/obs"
	"address-distance-service/internal/ports"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Resolver        handlers.DistanceResolver
	Repo            ports.HistoryRepository
	HistoryMaxLimit int
	Metrics         *obs.Metrics
	// Gatherer backs /metrics; the endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	distanceHandler := &handlers.DistanceHandler{Resolver: cfg.Resolver}
	historyHandler := &handlers.HistoryHandler{
		Repo:     cfg.Repo,
		MaxLimit: cfg.HistoryMaxLimit,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/location/distance", distanceHandler.Calculate)
	mux.HandleFunc("/history", historyHandler.List)
	if cfg.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return requestIDMiddleware(loggingMiddleware(logger, cfg.Metrics, mux))
}
