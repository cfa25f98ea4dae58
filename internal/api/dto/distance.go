package dto

import (
	"address-distance-service/internal/domain"
	"time"
)

type DistanceRequest struct {
	Source      *string `json:"source"`
	Destination *string `json:"destination"`
}

type PlaceResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type LocationRecordResponse struct {
	ID            string        `json:"id"`
	Source        PlaceResponse `json:"source"`
	Destination   PlaceResponse `json:"destination"`
	DistanceInKMs string        `json:"distanceInKMs"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// ValidationErrorResponse is returned for malformed request bodies.
type ValidationErrorResponse struct {
	Error ValidationErrorBody `json:"error"`
}

type ValidationErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewLocationRecordResponse(rec *domain.LocationRecord) LocationRecordResponse {
	return LocationRecordResponse{
		ID:            rec.ID,
		Source:        PlaceResponse(rec.Source),
		Destination:   PlaceResponse(rec.Destination),
		DistanceInKMs: rec.DistanceInKMs,
		CreatedAt:     rec.CreatedAt,
	}
}
