package app

import (
	"context"
	"errors"
	"exypnos-finder/internal/adapters/ocm"
	"exypnos-finder/internal/api"
	"exypnos-finder/internal/api/handlers"
	"exypnos-finder/internal/config"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/platform/logging"
	"exypnos-finder/internal/services"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Bootstrap loads .env (if present) and configuration, then installs the
// process-wide logger.
func Bootstrap() (config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("bootstrap: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("bootstrap: build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Debug("no .env file found (using environment variables)")
	}

	return cfg, logger, nil
}

// NewDirectory builds the OpenChargeMap client from cfg.
func NewDirectory(cfg config.Config) (*ocm.Client, error) {
	return ocm.NewClient(cfg.OCM.APIKey,
		ocm.WithBaseURL(cfg.OCM.BaseURL),
		ocm.WithMaxResults(cfg.OCM.MaxResults),
		ocm.WithHTTPClient(&http.Client{Timeout: cfg.OCM.Timeout}),
	)
}

// SessionOptions derives map session settings from cfg.
func SessionOptions(cfg config.Config) services.SessionOptions {
	return services.SessionOptions{
		LookupZoom: cfg.Map.LookupZoom,
		RadiusKm:   cfg.Search.RadiusKm,
		MaxResults: cfg.OCM.MaxResults,
	}
}

// DefaultCenter is the initial map centre before the user is located.
func DefaultCenter(cfg config.Config) domain.Coordinates {
	return domain.Coordinates{Lat: cfg.Map.DefaultLat, Lon: cfg.Map.DefaultLng}
}

// Server bundles the HTTP server with the session store it serves.
type Server struct {
	HTTP     *http.Server
	Sessions *handlers.SessionStore
}

// NewServer is the application composition root.
// It wires the OCM directory behind the API and returns a configured server.
func NewServer(cfg config.Config, logger *zap.Logger) (*Server, error) {
	dir, err := NewDirectory(cfg)
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}

	store := handlers.NewSessionStore(dir,
		handlers.MapDefaults{Center: DefaultCenter(cfg), Zoom: cfg.Map.DefaultZoom},
		SessionOptions(cfg),
		handlers.WithTTL(cfg.Session.TTL),
		handlers.WithMaxSessions(cfg.Session.MaxSessions),
	)

	router := api.NewRouter(api.Deps{
		Facts:    services.NewFactPicker(nil),
		Sessions: store,
		RadiusKm: cfg.Search.RadiusKm,
		Logger:   logger,
	})

	// Write timeout covers one upstream directory call plus rendering.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.OCM.Timeout + 20*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{HTTP: srv, Sessions: store}, nil
}

// Serve runs the server and the session sweeper until ctx is cancelled, then
// shuts the server down gracefully.
func Serve(ctx context.Context, s *Server, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	srv := s.HTTP

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Sessions.Run(gctx, 0)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
