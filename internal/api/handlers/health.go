package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	res := map[string]string{"status": "ok", "message": "Server is running"}
	writeJSON(w, r, http.StatusOK, res)
}
