package models

import "encoding/json"

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// GenerationResponse is the normalized output of an LLM provider call.
type GenerationResponse struct {
	Content  string             `json:"content"`
	Metadata GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

// SessionView is the wire representation of a running session.
type SessionView struct {
	SessionID       string    `json:"session_id"`
	State           string    `json:"state"`
	JobTitle        string    `json:"job_title"`
	Difficulty      string    `json:"difficulty"`
	QuestionIndex   int       `json:"question_index"`
	QuestionCount   int       `json:"question_count"`
	Question        *Question `json:"question,omitempty"`
	Answer          string    `json:"answer"`
	TotalElapsed    string    `json:"total_elapsed"`
	QuestionElapsed string    `json:"question_elapsed"`
	Countdown       int       `json:"countdown"`
	Interacted      bool      `json:"interacted"`
	Recording       bool      `json:"recording"`
	Transcribing    bool      `json:"transcribing"`
}

// ParseResumeResponse is returned by the resume parsing endpoint.
type ParseResumeResponse struct {
	Sections []ResumeSection `json:"sections"`
	Profile  *Profile        `json:"profile,omitempty"`
}

type ImproveSectionResponse struct {
	Improved string `json:"improved"`
}

// JobListing is one upstream job search result, passed through as-is.
type JobListing struct {
	JobID          string   `json:"job_id"`
	JobTitle       string   `json:"job_title"`
	EmployerName   string   `json:"employer_name"`
	JobDescription string   `json:"job_description"`
	JobCity        string   `json:"job_city"`
	JobState       string   `json:"job_state"`
	JobApplyLink   string   `json:"job_apply_link"`
	EmploymentType string   `json:"job_employment_type"`
	SalaryMin      *float64 `json:"job_salary_min"`
	SalaryMax      *float64 `json:"job_salary_max"`
	SalaryCurrency *string  `json:"job_salary_currency"`
	SalaryPeriod   string   `json:"job_salary_period"`
}

// JobAnalysisResponse is the upstream job description analysis.
type JobAnalysisResponse struct {
	DescriptionSummary string   `json:"description_summary"`
	Requirements       []string `json:"requirements"`
	RequiredSkills     []string `json:"required_skills"`
}

// ReportView bundles everything the results page needs.
type ReportView struct {
	SessionID    string          `json:"session_id"`
	ScoredReport *ScoredReport   `json:"scored_report,omitempty"`
	LearningPlan json.RawMessage `json:"learning_plan,omitempty"`
}
