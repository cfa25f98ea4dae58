package repositories

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the HistoryRepository port.
type SQLHistoryRepository struct{ DB *sql.DB }

func NewSQLHistoryRepository(db *sql.DB) *SQLHistoryRepository {
	return &SQLHistoryRepository{DB: db}
}

// Insert a single location record.
func (s *SQLHistoryRepository) Insert(ctx context.Context, rec *domain.LocationRecord) (err error) {
	defer obs.Time(ctx, "history.sql.Insert")(&err)

	if s.DB == nil {
		return errors.New("sql history repository: DB is nil")
	}
	if rec == nil {
		return errors.New("insert location record: record is nil")
	}

	query := `
	INSERT INTO location_history (
		id,
		source_name, source_lat, source_lng,
		destination_name, destination_lat, destination_lng,
		distance_km,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = s.DB.ExecContext(ctx, query,
		rec.ID,
		rec.Source.Name, rec.Source.Lat, rec.Source.Lng,
		rec.Destination.Name, rec.Destination.Lat, rec.Destination.Lng,
		rec.DistanceInKMs,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location record id=%q: %w", rec.ID, err)
	}

	return nil
}

// Return up to limit records after offset, newest first.
func (s *SQLHistoryRepository) ListRecent(ctx context.Context, offset, limit int) (_ []*domain.LocationRecord, err error) {
	defer obs.Time(ctx, "history.sql.ListRecent")(&err)

	if s.DB == nil {
		return nil, errors.New("sql history repository: DB is nil")
	}

	query := `
	SELECT
		id,
		source_name, source_lat, source_lng,
		destination_name, destination_lat, destination_lng,
		distance_km,
		created_at
	FROM location_history
	ORDER BY created_at DESC, id DESC
	LIMIT $1 OFFSET $2;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history: query location_history table: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.LocationRecord, 0, limit)
	for rows.Next() {
		var rec domain.LocationRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Source.Name, &rec.Source.Lat, &rec.Source.Lng,
			&rec.Destination.Name, &rec.Destination.Lat, &rec.Destination.Lng,
			&rec.DistanceInKMs,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list history: scan row: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: row iteration: %w", err)
	}

	return records, nil
}

func (s *SQLHistoryRepository) Count(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, errors.New("sql history repository: DB is nil")
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_history;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}

	return n, nil
}
