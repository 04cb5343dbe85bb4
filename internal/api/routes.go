package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/neoteran-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health                      source health, cache statistics
//	GET /api/v1/convert/now          current instant
//	GET /api/v1/convert/range        ?start=YYYY-MM-DD&end=YYYY-MM-DD
//	GET /api/v1/convert/{datetime}   YYYY-MM-DD or YYYY-MM-DDTHH:MM, UTC
//	GET /api/v1/year/{datetime}      months of the containing year
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(),
		RateLimitMiddleware(NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), logger),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Route not found", "NOT_FOUND")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/convert/now", handlers.ConvertNow)
		r.Get("/convert/range", handlers.ConvertRange)
		r.Get("/convert/{datetime}", handlers.ConvertInstant)
		r.Get("/year/{datetime}", handlers.GetYear)
	})

	return r
}
