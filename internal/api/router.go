package api

import (
	"exypnos-finder/internal/api/handlers"
	"exypnos-finder/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Dependencies needed to build the HTTP API.
type Deps struct {
	Facts    *services.FactPicker
	Sessions *handlers.SessionStore
	RadiusKm float64
	Logger   *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := mux.NewRouter()

	factHandler := &handlers.FactHandler{Picker: d.Facts}
	calcHandler := &handlers.CalculatorHandler{}
	sessionHandler := &handlers.SessionHandler{
		Store:    d.Sessions,
		RadiusKm: d.RadiusKm,
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/facts/random", factHandler.Random).Methods(http.MethodGet)
	r.HandleFunc("/calculator", calcHandler.Calculate).Methods(http.MethodPost)

	r.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", sessionHandler.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/map", sessionHandler.Map).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/nearest", sessionHandler.Nearest).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	r.Use(requestIDMiddleware, loggingMiddleware(d.Logger))

	return corsMiddleware(r)
}
