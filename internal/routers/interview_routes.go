package routers

import (
	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/", interviewHandler.StartHandler)
		r.Get("/{sessionID}", interviewHandler.GetHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/{sessionID}/answer", interviewHandler.AnswerHandler)
		r.Post("/{sessionID}/advance", interviewHandler.AdvanceHandler)
		r.Post("/{sessionID}/skip", interviewHandler.SkipHandler)
		r.With(middleware.ValidateRequest[*models.DifficultyRequest]()).Post("/{sessionID}/difficulty", interviewHandler.DifficultyHandler)
		r.Post("/{sessionID}/recordings", interviewHandler.RecordingHandler)
		r.Get("/{sessionID}/report", interviewHandler.ReportHandler)
	})
}
