package routers

import (
	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func ApplicationRoutes(router *chi.Mux, applicationHandler *handlers.ApplicationHandler) {
	router.Route("/api/v1/applications", func(r chi.Router) {
		r.Get("/", applicationHandler.ListHandler)
		r.With(middleware.ValidateRequest[*models.ApplicationUpsertRequest]()).Post("/", applicationHandler.CreateHandler)
		r.With(middleware.ValidateRequest[*models.ApplicationUpsertRequest]()).Put("/{applicationID}", applicationHandler.UpdateHandler)
		r.Delete("/{applicationID}", applicationHandler.DeleteHandler)
	})
}
