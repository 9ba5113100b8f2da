package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobprep/interview/internal/backend"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/utils"
)

// JobsHandler proxies job search and job analysis to the AI service.
type JobsHandler struct {
	backend *backend.Client
	logger  *zap.Logger
}

func NewJobsHandler(client *backend.Client, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{backend: client, logger: logger}
}

func (h *JobsHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	numPages, _ := strconv.Atoi(q.Get("num_pages"))

	params := models.JobSearchParams{
		Query:           q.Get("query"),
		Page:            page,
		NumPages:        numPages,
		Country:         q.Get("country"),
		DatePosted:      q.Get("date_posted"),
		JobRequirements: q.Get("job_requirements"),
	}

	listings, err := h.backend.SearchJobs(r.Context(), params)
	if err != nil {
		h.logger.Error("Job search failed", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "job_search_failed",
			Message: "Failed to search for jobs",
		})
		return
	}

	if listings == nil {
		listings = []models.JobListing{}
	}
	utils.JSON(w, http.StatusOK, listings)
}

func (h *JobsHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobDescription string `json:"job_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_json",
			Message: "Invalid JSON in request body",
		})
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_job_description",
			Message: "job_description is required",
		})
		return
	}

	analysis, err := h.backend.AnalyzeJob(r.Context(), req.JobDescription)
	if err != nil {
		h.logger.Error("Job analysis failed", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "job_analysis_failed",
			Message: "Failed to analyze job description",
		})
		return
	}

	utils.JSON(w, http.StatusOK, analysis)
}
