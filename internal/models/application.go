package models

var ValidApplicationStatuses = map[string]bool{
	"applied":   true,
	"interview": true,
	"offer":     true,
	"rejected":  true,
	"saved":     true,
}

// ApplicationRecord tracks one tracked job application.
type ApplicationRecord struct {
	ID         string `json:"id"`
	Company    string `json:"company"`
	Role       string `json:"role"`
	Location   string `json:"location,omitempty"`
	Link       string `json:"link,omitempty"`
	AppliedAt  string `json:"applied_at,omitempty"`
	NextStepAt string `json:"next_step_at,omitempty"`
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
}
