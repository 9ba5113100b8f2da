package routers

import (
	"jobprep/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func JobsRoutes(router *chi.Mux, jobsHandler *handlers.JobsHandler) {
	router.Route("/api/v1/jobs", func(r chi.Router) {
		r.Get("/", jobsHandler.SearchHandler)
		r.Post("/analysis", jobsHandler.AnalyzeHandler)
	})
}
