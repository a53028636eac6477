package api

import (
	"net/http"
	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type RouterConfig struct {
	Optimizer *services.Optimizer
	// Repo is optional; without it /stops is not served and /routes needs
	// explicit destinations.
	Repo              ports.StopRepository
	Hub               string
	Strategy          domain.Strategy
	MaxStops          int
	MaxConcurrentRuns int64
	Logger            *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Optimizer:       cfg.Optimizer,
		Repo:            cfg.Repo,
		DefaultHub:      cfg.Hub,
		DefaultStrategy: cfg.Strategy,
		MaxStops:        cfg.MaxStops,
	}
	if cfg.MaxConcurrentRuns > 0 {
		routeHandler.Limiter = semaphore.NewWeighted(cfg.MaxConcurrentRuns)
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.Plan)

	if cfg.Repo != nil {
		stopHandler := &handlers.StopHandler{Repo: cfg.Repo}
		mux.HandleFunc("/stops", stopHandler.Serve)
	}

	return loggingMiddleware(logger, mux)
}
