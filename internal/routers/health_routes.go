package routers

import (
	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/metrics"

	"github.com/go-chi/chi/v5"
)

func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	router.Handle("/metrics", metrics.Handler())
}
