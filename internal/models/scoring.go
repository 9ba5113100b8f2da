package models

import "encoding/json"

// BulletEval is one externally evaluated rubric criterion, scored 0-10.
type BulletEval struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Comment   string  `json:"comment,omitempty"`
}

// ScoredItem is one question's evaluation. The verdict, bullet evals,
// feedback and coding review come from the scorer; all numeric aggregates
// are computed locally and never trusted from upstream.
type ScoredItem struct {
	QuestionID   string          `json:"question_id"`
	Kind         string          `json:"kind"`
	Text         string          `json:"text"`
	Verdict      string          `json:"verdict"`
	RawScore     float64         `json:"raw_score"`
	MaxScore     float64         `json:"max_score"`
	Percent      float64         `json:"percent"`
	Weight       float64         `json:"weight"`
	WeightedRaw  float64         `json:"weighted_raw"`
	WeightedMax  float64         `json:"weighted_max"`
	BulletEvals  []BulletEval    `json:"bullet_evals"`
	Feedback     string          `json:"feedback"`
	CodingReview json.RawMessage `json:"coding_review,omitempty"`
}

// OverallScore is the locally aggregated total across all items.
type OverallScore struct {
	TotalScore float64 `json:"total_score"`
	TotalMax   float64 `json:"total_max"`
	Percent    float64 `json:"percent"`
}

// ScoredReport is the weighted report submitted to the learning-plan
// generator and persisted for the results view.
type ScoredReport struct {
	JobTitle string       `json:"job_title"`
	Overall  OverallScore `json:"overall"`
	Items    []ScoredItem `json:"items"`
}

// ScoresSubmission wraps the answered question set for the scoring
// endpoint.
type ScoresSubmission struct {
	QuestionSet QuestionSet `json:"question_set"`
}

// ScoresResponse is the raw payload returned by the scoring endpoint.
type ScoresResponse struct {
	JobTitle string       `json:"job_title"`
	Items    []ScoredItem `json:"items"`
}

// Learning-plan policy constants. Fixed, not user-configurable.
const (
	LearningThreshold    = 70.0
	LearningBudgetHours  = 20.0
	LearningMaxResources = 6
)

// LearningPlanRequest is the aggregate submitted to the learning endpoint.
type LearningPlanRequest struct {
	ScoredReport ScoredReport `json:"scored_report"`
	Threshold    float64      `json:"threshold"`
	BudgetHours  float64      `json:"budget_hours"`
	MaxResources int          `json:"max_resources"`
}
