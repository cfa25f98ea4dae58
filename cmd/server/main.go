package main

import (
	"address-distance-service/internal/adapters/distance"
	"address-distance-service/internal/adapters/geocode"
	"address-distance-service/internal/adapters/repositories"
	"address-distance-service/internal/api"
	"address-distance-service/internal/config"
	"address-distance-service/internal/platform/db"
	"address-distance-service/internal/platform/obs"
	"address-distance-service/internal/platform/retry"
	"address-distance-service/internal/ports"
	"address-distance-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// main is the application composition root.
// It wires concrete adapters (database, geocoders, routing) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, repo, err := openHistory(ctx, cfg)
	if err != nil {
		logger.Error("failed to open history store", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	policy := retry.Policy{
		MaxAttempts: cfg.MaxRetries,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}

	geocoders, err := buildGeocoders(cfg, policy)
	if err != nil {
		logger.Error("failed to build geocoders", "error", err)
		os.Exit(1)
	}
	estimators, err := buildEstimators(cfg, policy)
	if err != nil {
		logger.Error("failed to build distance estimators", "error", err)
		os.Exit(1)
	}

	metrics := obs.NewMetrics(prometheus.DefaultRegisterer)

	resolver, err := services.NewDistanceResolver(geocoders, estimators, repo, clockwork.NewRealClock(), metrics, logger)
	if err != nil {
		logger.Error("failed to build resolver", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Resolver:        resolver,
		Repo:            repo,
		HistoryMaxLimit: cfg.HistoryMaxLimit,
		Metrics:         metrics,
		Gatherer:        prometheus.DefaultGatherer,
		Logger:          logger,
	})

	// Write timeout covers the full retry budget of both geocoding and routing.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver,
			"geocoders", names(geocoders), "estimators", estimatorNames(estimators))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// openHistory opens the configured database, initializes its schema and returns the matching repository.
func openHistory(ctx context.Context, cfg *config.Config) (*sql.DB, ports.HistoryRepository, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, repositories.NewSQLHistoryRepository(conn), nil
	case config.DriverSqlite:
		conn, err := db.OpenSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, repositories.NewSqliteHistoryRepository(conn), nil
	default:
		return nil, nil, fmt.Errorf("open history: unsupported driver %q", cfg.DBDriver)
	}
}

// buildGeocoders returns the fallback chain: retried Nominatim first, then Google and ORS when keyed.
func buildGeocoders(cfg *config.Config, policy retry.Policy) ([]ports.Geocoder, error) {
	nominatim, err := geocode.NewNominatim(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocoderTimeout)
	if err != nil {
		return nil, err
	}
	chain := []ports.Geocoder{geocode.NewRetrying(nominatim, policy)}

	if cfg.GoogleAPIKey != "" {
		g, err := geocode.NewGoogle(cfg.GoogleGeocodingURL, cfg.GoogleAPIKey, cfg.GeocoderTimeout)
		if err != nil {
			return nil, err
		}
		chain = append(chain, g)
	}
	if cfg.ORSAPIKey != "" {
		o, err := geocode.NewORS(cfg.ORSBaseURL, cfg.ORSAPIKey, cfg.GeocoderTimeout)
		if err != nil {
			return nil, err
		}
		chain = append(chain, o)
	}

	return chain, nil
}

// buildEstimators returns Google Routes when keyed, always followed by the great-circle fallback.
func buildEstimators(cfg *config.Config, policy retry.Policy) ([]ports.DistanceEstimator, error) {
	var chain []ports.DistanceEstimator

	if cfg.GoogleAPIKey != "" {
		routes, err := distance.NewGoogleRoutes(cfg.GoogleRoutesURL, cfg.GoogleAPIKey, cfg.RoutingTimeout, policy)
		if err != nil {
			return nil, err
		}
		chain = append(chain, routes)
	}

	return append(chain, distance.GreatCircle{}), nil
}

func names(gs []ports.Geocoder) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.Name())
	}
	return out
}

func estimatorNames(es []ports.DistanceEstimator) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Name())
	}
	return out
}
