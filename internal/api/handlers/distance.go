package handlers

import (
	"address-distance-service/internal/api/dto"
	"address-distance-service/internal/domain"
	"address-distance-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// DistanceResolver is the pipeline behind POST /location/distance.
type DistanceResolver interface {
	Resolve(ctx context.Context, source, destination string) (*domain.LocationRecord, error)
}

type DistanceHandler struct {
	Resolver DistanceResolver
}

func (h *DistanceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.DistanceRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeValidationError(w, r, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeValidationError(w, r, "body must contain only one JSON object")
		return
	}

	if msg := requireField("source", req.Source); msg != "" {
		writeValidationError(w, r, msg)
		return
	}
	if msg := requireField("destination", req.Destination); msg != "" {
		writeValidationError(w, r, msg)
		return
	}

	rec, err := h.Resolver.Resolve(r.Context(), *req.Source, *req.Destination)
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "resolve distance failed",
				"req_id", obs.RequestID(r.Context()),
				"error", err,
			)
		}
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewLocationRecordResponse(rec))
}

func requireField(name string, v *string) string {
	if v == nil {
		return `"` + name + `" is required`
	}
	if strings.TrimSpace(*v) == "" {
		return `"` + name + `" is not allowed to be empty`
	}
	return ""
}

func writeValidationError(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, r, http.StatusBadRequest, dto.ValidationErrorResponse{
		Error: dto.ValidationErrorBody{Message: msg, Type: "ValidationError"},
	})
}

// statusFor maps pipeline errors to an HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	var ve *domain.ValidationError
	var ge *domain.GeocodeError
	var pe *domain.PersistenceError

	switch {
	case errors.As(err, &ge):
		return http.StatusBadRequest, ge.Error()
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, domain.ErrDistanceUnavailable):
		return http.StatusInternalServerError, "Failed to calculate distance"
	case errors.As(err, &pe):
		return http.StatusInternalServerError, "Failed to save distance record"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
