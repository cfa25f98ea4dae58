package main

import (
	"address-distance-service/internal/adapters/repositories"
	"address-distance-service/internal/config"
	"address-distance-service/internal/platform/db"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dbtool creates the location_history schema for the configured DB_DRIVER.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	driver := config.Get("DB_DRIVER", config.DriverSqlite)

	var (
		conn *sql.DB
		err  error
		initSchema func(context.Context, *sql.DB) error
	)
	switch driver {
	case config.DriverPostgres:
		databaseURL := config.Get("DATABASE_URL", "")
		if databaseURL == "" {
			slog.Error("DATABASE_URL is required")
			os.Exit(1)
		}
		conn, err = db.Open(databaseURL)
		initSchema = repositories.InitPostgresSchema
	case config.DriverSqlite:
		conn, err = db.OpenSqlite(config.Get("DB_PATH", "data/app.db"))
		initSchema = repositories.InitSchema
	default:
		slog.Error("unsupported DB_DRIVER", "driver", driver)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("open database failed", "driver", driver, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	slog.Info("initializing database schema", "driver", driver)
	if err := initSchema(ctx, conn); err != nil {
		slog.Error("schema initialization failed", "error", err)
		os.Exit(1)
	}
	slog.Info("schema ready")
}
