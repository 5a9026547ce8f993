package handlers

import (
	"encoding/json"
	"exypnos-finder/internal/services"
	"net/http"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string           `json:"error"`
	Notice *services.Notice `json:"notice,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeNotice reports err together with the notice the page should show.
func writeNotice(w http.ResponseWriter, r *http.Request, status int, err error) {
	n := services.NoticeFor(err)
	writeJSON(w, r, status, errorResponse{Error: n.Message, Notice: &n})
}
