package routers

import (
	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func ResumeRoutes(router *chi.Mux, resumeHandler *handlers.ResumeHandler) {
	router.Post("/api/parse-resume", resumeHandler.ParseHandler)
	router.With(middleware.ValidateRequest[*models.ImproveSectionRequest]()).Post("/api/improve-section", resumeHandler.ImproveHandler)
	router.With(middleware.ValidateRequest[*models.ExportResumeRequest]()).Post("/api/export-resume-pdf", resumeHandler.ExportHandler)
}
