package handlers

import (
	"exypnos-finder/internal/services"
	"net/http"
)

type FactHandler struct {
	Picker *services.FactPicker
}

func (h *FactHandler) Random(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"fact": h.Picker.Pick()})
}
