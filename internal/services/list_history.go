package services

import (
	"address-distance-service/internal/domain"
	"address-distance-service/internal/ports"
	"context"
	"fmt"
	"math"
)

const (
	DefaultHistoryPage  = 1
	DefaultHistoryLimit = 10
)

type ListHistoryRequest struct {
	Page     int
	Limit    int
	MaxLimit int
}

// ListHistory returns one page of stored records, newest first.
// Page or limit below 1 fall back to the defaults; limit is capped at MaxLimit when set.
func ListHistory(
	ctx context.Context,
	req ListHistoryRequest,
	repo ports.HistoryRepository,
) (*domain.HistoryPage, error) {
	page := req.Page
	if page < 1 {
		page = DefaultHistoryPage
	}

	limit := req.Limit
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if req.MaxLimit > 0 && limit > req.MaxLimit {
		limit = req.MaxLimit
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: count records: %w", err)
	}

	records := []*domain.LocationRecord{}
	if page-1 <= (math.MaxInt32-limit)/limit {
		records, err = repo.ListRecent(ctx, (page-1)*limit, limit)
		if err != nil {
			return nil, fmt.Errorf("list history: page=%d limit=%d: %w", page, limit, err)
		}
	}

	return &domain.HistoryPage{
		Page:         page,
		Limit:        limit,
		TotalRecords: total,
		// Ceiling division.
		TotalPages: (total + limit - 1) / limit,
		Records:    records,
	}, nil
}
