package models

import "strings"

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

type StartInterviewRequest struct {
	JobID          string `json:"job_id"`
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
	Difficulty     string `json:"difficulty"`
	Resume         string `json:"resume,omitempty"`
}

// implements the Validator interface
func (r *StartInterviewRequest) Validate() error {
	if strings.TrimSpace(r.JobTitle) == "" {
		return &ErrorResponse{Code: "missing_job_title", Message: "job_title is required"}
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return &ErrorResponse{Code: "missing_job_description", Message: "job_description is required"}
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if !validDifficulties[r.Difficulty] {
		return &ErrorResponse{Code: "invalid_difficulty", Message: "Difficulty must be one of: easy, medium, hard"}
	}
	return nil
}

type AnswerRequest struct {
	Text string `json:"text"`
}

// An empty answer is legal; the buffer may be cleared deliberately.
func (r *AnswerRequest) Validate() error { return nil }

type DifficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

func (r *DifficultyRequest) Validate() error {
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if !validDifficulties[r.Difficulty] {
		return &ErrorResponse{Code: "invalid_difficulty", Message: "Difficulty must be one of: easy, medium, hard"}
	}
	return nil
}

type CoachMessageRequest struct {
	Content string `json:"content"`
}

func (r *CoachMessageRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &ErrorResponse{Code: "missing_content", Message: "content is required"}
	}
	return nil
}

type ImproveSectionRequest struct {
	Title          string `json:"title,omitempty"`
	Content        string `json:"content"`
	JobTitle       string `json:"jobTitle,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
}

func (r *ImproveSectionRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &ErrorResponse{Code: "missing_content", Message: "Section content is required"}
	}
	return nil
}

type ExportResumeRequest struct {
	Sections []ResumeSection `json:"sections"`
	Profile  *Profile        `json:"profile,omitempty"`
	FileName string          `json:"fileName,omitempty"`
}

func (r *ExportResumeRequest) Validate() error {
	if len(r.Sections) == 0 {
		return &ErrorResponse{Code: "missing_sections", Message: "At least one resume section is required"}
	}
	return nil
}

type ApplicationUpsertRequest struct {
	ApplicationRecord
}

func (r *ApplicationUpsertRequest) Validate() error {
	if strings.TrimSpace(r.Company) == "" {
		return &ErrorResponse{Code: "missing_company", Message: "company is required"}
	}
	if strings.TrimSpace(r.Role) == "" {
		return &ErrorResponse{Code: "missing_role", Message: "role is required"}
	}
	if r.Status == "" {
		r.Status = "saved"
	}
	if !ValidApplicationStatuses[r.Status] {
		return &ErrorResponse{Code: "invalid_status", Message: "Status must be one of: applied, interview, offer, rejected, saved"}
	}
	return nil
}

// QuestionRequest is the payload sent to the question provider.
type QuestionRequest struct {
	JobDescription string `json:"job_description"`
	Resume         string `json:"resume"`
	JobTitle       string `json:"job_title"`
	Difficulty     string `json:"difficulty"`
}

// GuideRequest is the payload sent to the guidance service.
type GuideRequest struct {
	MainQuestion string `json:"main_question"`
	HistoryStr   string `json:"history_str"`
	NewUserQuery string `json:"new_user_query"`
}

// JobSearchParams mirrors the upstream job search query string.
type JobSearchParams struct {
	Query           string
	Page            int
	NumPages        int
	Country         string
	DatePosted      string
	JobRequirements string
}
