package ports

import (
	"address-distance-service/internal/domain"
	"context"
)

// Port: append/query store for computed location records.
type HistoryRepository interface {
	// Persist a single record.
	Insert(ctx context.Context, rec *domain.LocationRecord) error
	// Return up to limit records after skipping offset, newest first.
	ListRecent(ctx context.Context, offset, limit int) ([]*domain.LocationRecord, error)
	// Return the total number of stored records.
	Count(ctx context.Context) (int, error)
}
