package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/retiresim/retirecast/internal/adapter/http/handler"
	"github.com/retiresim/retirecast/internal/adapter/http/middleware"
	"github.com/retiresim/retirecast/internal/infrastructure/metrics"
	"github.com/retiresim/retirecast/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ScenarioHandler  *handler.ScenarioHandler
	RunHandler       *handler.RunHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Scenarios
		r.Route("/scenarios", func(r chi.Router) {
			r.Post("/", cfg.ScenarioHandler.Create)
			r.Get("/", cfg.ScenarioHandler.List)
			r.Get("/{id}", cfg.ScenarioHandler.Get)
			r.Put("/{id}", cfg.ScenarioHandler.Update)
			r.Delete("/{id}", cfg.ScenarioHandler.Delete)
			r.Post("/{id}/runs", cfg.RunHandler.Create)
			r.Get("/{id}/runs", cfg.RunHandler.ListByScenario)
		})

		// Runs
		r.Route("/runs", func(r chi.Router) {
			r.Get("/{id}", cfg.RunHandler.Get)
			r.Patch("/{id}", cfg.RunHandler.UpdateTitle)
			r.Delete("/{id}", cfg.RunHandler.Delete)
		})
	})

	return r
}
