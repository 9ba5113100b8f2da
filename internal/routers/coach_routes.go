package routers

import (
	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func CoachRoutes(router *chi.Mux, coachHandler *handlers.CoachHandler) {
	router.Route("/api/v1/interviews/{sessionID}/coach", func(r chi.Router) {
		r.Post("/", coachHandler.OpenHandler)
		r.Get("/messages", coachHandler.MessagesHandler)
		r.With(middleware.ValidateRequest[*models.CoachMessageRequest]()).Post("/messages", coachHandler.MessageHandler)
		r.Get("/speech/{messageID}", coachHandler.SpeechHandler)
	})
}
