package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// genericError is the only detail clients see for unexpected failures.
const genericError = "An unexpected error occurred"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// Fallback logs err and answers with the generic 500 body. It handles
// panics, malformed request bodies and any error outside the taxonomy.
func Fallback(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("unhandled request error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": genericError})
}
