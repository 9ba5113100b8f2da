package models

import (
	"time"

	"gorm.io/gorm"
)

// InterviewReport is the durable record of one completed session: the
// locally aggregated scored report plus the learning plan returned for it.
type InterviewReport struct {
	gorm.Model
	SessionID      string     `gorm:"uniqueIndex;not null" json:"session_id"`
	JobTitle       string     `gorm:"not null" json:"job_title"`
	OverallPercent float64    `gorm:"not null" json:"overall_percent"`
	ReportJSON     string     `gorm:"type:text" json:"report_json"`
	PlanJSON       string     `gorm:"type:text" json:"plan_json"`
	CompletedAt    time.Time  `gorm:"index" json:"completed_at"`
	Exported       bool       `gorm:"index;not null;default:false" json:"exported"`
	ExportedAt     *time.Time `json:"exported_at,omitempty"`
}
