package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"jobprep/interview/internal/coach"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/session"
	"jobprep/interview/internal/utils"
)

// CoachHandler owns the follow-up dialogs, one per session at a time.
// Opening the coach for a session replaces any previous dialog, since the
// coach is always seeded with the currently active question.
type CoachHandler struct {
	mu      sync.Mutex
	dialogs map[string]*coach.Dialog

	manager *session.Manager
	guide   coach.Guide
	speaker coach.Speaker
	logger  *zap.Logger
}

func NewCoachHandler(manager *session.Manager, guide coach.Guide, speaker coach.Speaker, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{
		dialogs: make(map[string]*coach.Dialog),
		manager: manager,
		guide:   guide,
		speaker: speaker,
		logger:  logger,
	}
}

// OpenHandler starts a coach dialog for the session's current question.
// Opening the coach counts as an interaction and freezes the countdown.
func (h *CoachHandler) OpenHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	q := s.CurrentQuestion()
	if q == nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "no_active_question",
			Message: "The session has no active question to discuss",
		})
		return
	}
	s.MarkInteraction()

	player := coach.NewPlayer(h.speaker, h.logger)
	dialog := coach.NewDialog(q.Text, h.guide, player, h.logger)

	h.mu.Lock()
	h.dialogs[s.ID] = dialog
	h.mu.Unlock()

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"question": dialog.Question(),
		"messages": dialog.Messages(),
	})
}

func (h *CoachHandler) MessageHandler(w http.ResponseWriter, r *http.Request) {
	dialog, ok := h.dialog(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.CoachMessageRequest](r)

	reply, err := dialog.Send(r.Context(), req.Content, false)
	if err != nil {
		if errors.Is(err, coach.ErrGuideBusy) {
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{
				Code:    "guide_busy",
				Message: "A guidance request is already in progress",
			})
			return
		}
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_message",
			Message: err.Error(),
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"reply":    reply,
		"messages": dialog.Messages(),
	})
}

func (h *CoachHandler) MessagesHandler(w http.ResponseWriter, r *http.Request) {
	dialog, ok := h.dialog(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"question": dialog.Question(),
		"messages": dialog.Messages(),
	})
}

// SpeechHandler streams the synthesized audio for the given assistant
// reply. Only the most recent reply has a clip.
func (h *CoachHandler) SpeechHandler(w http.ResponseWriter, r *http.Request) {
	dialog, ok := h.dialog(w, r)
	if !ok {
		return
	}
	messageID := chi.URLParam(r, "messageID")

	player := dialog.Player()
	if player == nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "speech_unavailable",
			Message: "Speech synthesis is not enabled",
		})
		return
	}

	clip, ok := player.Clip(messageID)
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "clip_not_found",
			Message: "No audio clip for that message",
		})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(clip)
}

func (h *CoachHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	s, err := h.manager.Get(sessionID)
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "session_not_found",
			Message: "No interview session with that ID",
		})
		return nil, false
	}
	return s, true
}

func (h *CoachHandler) dialog(w http.ResponseWriter, r *http.Request) (*coach.Dialog, bool) {
	sessionID := chi.URLParam(r, "sessionID")

	h.mu.Lock()
	dialog, ok := h.dialogs[sessionID]
	h.mu.Unlock()

	if !ok {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "coach_not_open",
			Message: "The coach has not been opened for this session",
		})
		return nil, false
	}
	return dialog, true
}
