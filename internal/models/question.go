package models

// Question kinds as produced by the question provider.
const (
	KindBehavioral = "behavioral"
	KindTechnical  = "technical"
	KindCoding     = "coding"
)

// CodingDetails carries the extra context attached to coding questions.
type CodingDetails struct {
	Difficulty     string   `json:"difficulty"`
	TargetLanguage string   `json:"target_language"`
	Constraints    []string `json:"constraints"`
	Examples       []string `json:"examples"`
}

// Question is a single interview question. UserResponse is written exactly
// once, when the session advances past the question (empty if skipped).
type Question struct {
	QuestionID   string         `json:"question_id"`
	Kind         string         `json:"kind"`
	Text         string         `json:"text"`
	Rationale    string         `json:"rationale"`
	Rubric       []string       `json:"rubric"`
	Coding       *CodingDetails `json:"coding,omitempty"`
	UserResponse string         `json:"user_response"`
}

// QuestionSet is the ordered set of questions for one session. Ordering is
// fixed for the lifetime of the session.
type QuestionSet struct {
	JobTitle  string     `json:"job_title"`
	Summary   string     `json:"summary"`
	Questions []Question `json:"questions"`
}
