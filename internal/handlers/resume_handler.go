package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/resume"
	"jobprep/interview/internal/utils"
)

// maxResumeUploadBytes bounds an uploaded resume file.
const maxResumeUploadBytes = 10 << 20

type ResumeHandler struct {
	parser   *resume.Parser
	improver *resume.Improver
	logger   *zap.Logger
}

func NewResumeHandler(parser *resume.Parser, improver *resume.Improver, logger *zap.Logger) *ResumeHandler {
	return &ResumeHandler{
		parser:   parser,
		improver: improver,
		logger:   logger,
	}
}

// ParseHandler accepts either multipart form data with a "file" part or a
// "text" form value, extracts the resume text and returns normalized
// sections.
func (h *ResumeHandler) ParseHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	text, err := h.resumeText(r)
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "no_resume_content",
			Message: "No resume content provided",
		})
		return
	}

	sections, err := h.parser.ParseSections(r.Context(), text, requestID)
	if err != nil {
		h.logger.Error("Resume parsing failed",
			zap.String("request_id", requestID), zap.Error(err))
		if errors.Is(err, resume.ErrUnreadableResponse) || errors.Is(err, resume.ErrNoSections) {
			utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
				Code:    "parse_failed",
				Message: err.Error(),
			})
			return
		}
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "ai_error",
			Message: "Failed to parse resume",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.ParseResumeResponse{Sections: sections})
}

func (h *ResumeHandler) resumeText(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxResumeUploadBytes); err != nil {
		return "", err
	}

	if raw := r.FormValue("text"); raw != "" {
		return resume.ClampText(raw)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", resume.ErrNoContent
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeUploadBytes))
	if err != nil {
		return "", err
	}

	text, err := resume.ExtractText(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		return "", err
	}
	return resume.ClampText(text)
}

func (h *ResumeHandler) ImproveHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ImproveSectionRequest](r)
	requestID := uuid.New().String()

	improved, err := h.improver.ImproveSection(r.Context(), *req, requestID)
	if err != nil {
		h.logger.Error("Section improvement failed",
			zap.String("request_id", requestID), zap.Error(err))
		if errors.Is(err, resume.ErrEmptyImprovement) {
			utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
				Code:    "improve_failed",
				Message: err.Error(),
			})
			return
		}
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "ai_error",
			Message: "Failed to improve section",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.ImproveSectionResponse{Improved: improved})
}

func (h *ResumeHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ExportResumeRequest](r)

	pdfBytes, fileName, err := resume.BuildPDF(*req)
	if err != nil {
		h.logger.Error("PDF export failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, resume.ErrBadPDFOutput) {
			status = http.StatusBadGateway
		}
		utils.JSON(w, status, models.ErrorResponse{
			Code:    "export_failed",
			Message: "Failed to generate resume PDF",
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
