package repositories

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite-backed implementation of the HistoryRepository port.
// created_at is stored as Unix nanoseconds so ordering stays numeric.
type SqliteHistoryRepository struct{ DB *sql.DB }

func NewSqliteHistoryRepository(db *sql.DB) *SqliteHistoryRepository {
	return &SqliteHistoryRepository{DB: db}
}

func (s *SqliteHistoryRepository) Insert(ctx context.Context, rec *domain.LocationRecord) (err error) {
	defer obs.Time(ctx, "history.sqlite.Insert")(&err)

	if s.DB == nil {
		return errors.New("sqlite history repository: DB is nil")
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
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		rec.ID,
		rec.Source.Name, rec.Source.Lat, rec.Source.Lng,
		rec.Destination.Name, rec.Destination.Lat, rec.Destination.Lng,
		rec.DistanceInKMs,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert location record id=%q: %w", rec.ID, err)
	}

	return nil
}

func (s *SqliteHistoryRepository) ListRecent(ctx context.Context, offset, limit int) (_ []*domain.LocationRecord, err error) {
	defer obs.Time(ctx, "history.sqlite.ListRecent")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite history repository: DB is nil")
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
	LIMIT ? OFFSET ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history: query location_history table: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.LocationRecord, 0, limit)
	for rows.Next() {
		var rec domain.LocationRecord
		var createdAt int64
		err := rows.Scan(
			&rec.ID,
			&rec.Source.Name, &rec.Source.Lat, &rec.Source.Lng,
			&rec.Destination.Name, &rec.Destination.Lat, &rec.Destination.Lng,
			&rec.DistanceInKMs,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list history: scan row: %w", err)
		}
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: row iteration: %w", err)
	}

	return records, nil
}

func (s *SqliteHistoryRepository) Count(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, errors.New("sqlite history repository: DB is nil")
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_history;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}

	return n, nil
}
