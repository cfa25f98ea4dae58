package handlers

import (
	"address-distance-service/internal/api/dto"
	"address-distance-service/internal/platform/obs"
	"address-distance-service/internal/ports"
	"address-distance-service/internal/services"
	"log/slog"
	"net/http"
	"strconv"
)

type HistoryHandler struct {
	Repo     ports.HistoryRepository
	MaxLimit int
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	q := r.URL.Query()
	req := services.ListHistoryRequest{
		Page:     queryInt(q.Get("page"), services.DefaultHistoryPage),
		Limit:    queryInt(q.Get("limit"), services.DefaultHistoryLimit),
		MaxLimit: h.MaxLimit,
	}

	page, err := services.ListHistory(r.Context(), req, h.Repo)
	if err != nil {
		slog.ErrorContext(r.Context(), "list history failed",
			"req_id", obs.RequestID(r.Context()),
			"error", err,
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.HistoryResponse{
		Page:         page.Page,
		Limit:        page.Limit,
		TotalRecords: page.TotalRecords,
		TotalPages:   page.TotalPages,
		Data:         make([]dto.LocationRecordResponse, 0, len(page.Records)),
	}
	for _, rec := range page.Records {
		res.Data = append(res.Data, dto.NewLocationRecordResponse(rec))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// queryInt parses a positive integer query value, returning fallback otherwise.
func queryInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
