package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"jobprep/interview/internal/capture"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/results"
	"jobprep/interview/internal/session"
	"jobprep/interview/internal/store"
	"jobprep/interview/internal/utils"
)

// maxRecordingBytes bounds a single uploaded recording.
const maxRecordingBytes = 20 << 20

type InterviewHandler struct {
	manager *session.Manager
	results *results.Store
	kv      store.Store
	logger  *zap.Logger
}

func NewInterviewHandler(manager *session.Manager, resultsStore *results.Store, kv store.Store, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		manager: manager,
		results: resultsStore,
		kv:      kv,
		logger:  logger,
	}
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)

	s, err := h.manager.Start(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to start interview session", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "question_fetch_failed",
			Message: "Failed to fetch interview questions",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, s.View())
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, s.View())
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)

	if err := s.SetAnswer(req.Text); err != nil {
		h.sessionError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, s.View())
}

func (h *InterviewHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Advance(r.Context()); err != nil {
		h.sessionError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, s.View())
}

func (h *InterviewHandler) SkipHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Skip(r.Context()); err != nil {
		h.sessionError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, s.View())
}

func (h *InterviewHandler) DifficultyHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.DifficultyRequest](r)

	if err := s.SetDifficulty(r.Context(), req.Difficulty); err != nil {
		if errors.Is(err, session.ErrSessionComplete) {
			h.sessionError(w, err)
			return
		}
		h.logger.Error("Failed to restart session with new difficulty",
			zap.String("session_id", s.ID), zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "question_fetch_failed",
			Message: "Failed to fetch interview questions",
		})
		return
	}
	utils.JSON(w, http.StatusOK, s.View())
}

// RecordingHandler accepts a push-to-talk recording as multipart form
// data: the audio under "file" and its length under "duration_ms". Short
// or empty recordings are acknowledged without transcription.
func (h *InterviewHandler) RecordingHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxRecordingBytes); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_multipart",
			Message: "Invalid multipart form data",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_file",
			Message: "Recording file is required",
		})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxRecordingBytes))
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "unreadable_file",
			Message: "Failed to read recording file",
		})
		return
	}

	durationMs, _ := strconv.Atoi(r.FormValue("duration_ms"))
	duration := time.Duration(durationMs) * time.Millisecond

	if err := s.StartRecording(); err != nil {
		h.sessionError(w, err)
		return
	}

	transcript, err := s.FinishRecording(r.Context(), header.Filename, audio, duration)
	if err != nil {
		h.logger.Warn("Transcription failed",
			zap.String("session_id", s.ID), zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "transcription_failed",
			Message: "Failed to transcribe recording",
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"transcription": transcript,
		"session":       s.View(),
	})
}

// ReportHandler returns the persisted report for a completed session,
// falling back to the last stored scores when the database is disabled.
func (h *InterviewHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view := models.ReportView{SessionID: sessionID}
	if h.results != nil {
		row, err := h.results.BySession(sessionID)
		if err != nil {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
				Code:    "report_not_found",
				Message: "No report exists for this session",
			})
			return
		}
		var report models.ScoredReport
		if err := json.Unmarshal([]byte(row.ReportJSON), &report); err != nil {
			h.logger.Error("Stored report is unreadable",
				zap.String("session_id", sessionID), zap.Error(err))
			utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
				Code:    "report_corrupt",
				Message: "Stored report could not be decoded",
			})
			return
		}
		view.ScoredReport = &report
		if row.PlanJSON != "" {
			view.LearningPlan = json.RawMessage(row.PlanJSON)
		}
		utils.JSON(w, http.StatusOK, view)
		return
	}

	if h.kv == nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "report_not_found",
			Message: "No report exists for this session",
		})
		return
	}

	scoresJSON, err := h.kv.Get(r.Context(), store.KeyLastLearningScores)
	if err != nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "report_not_found",
			Message: "No report exists for this session",
		})
		return
	}
	var report models.ScoredReport
	if err := json.Unmarshal([]byte(scoresJSON), &report); err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "report_corrupt",
			Message: "Stored report could not be decoded",
		})
		return
	}
	view.ScoredReport = &report
	if planJSON, err := h.kv.Get(r.Context(), store.KeyLastLearningPlan); err == nil {
		view.LearningPlan = json.RawMessage(planJSON)
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *InterviewHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
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

func (h *InterviewHandler) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionComplete):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "session_complete",
			Message: "The interview session is already complete",
		})
	case errors.Is(err, session.ErrSessionLoading):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "session_loading",
			Message: "The interview session is still loading",
		})
	case errors.Is(err, capture.ErrCaptureBusy):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "recording_busy",
			Message: "A recording or transcription is already in progress",
		})
	case errors.Is(err, capture.ErrNotRecording):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "not_recording",
			Message: "No recording in progress",
		})
	default:
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "session_error",
			Message: err.Error(),
		})
	}
}
