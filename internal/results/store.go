package results

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"jobprep/interview/internal/models"
)

// Store persists completed interview reports.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.InterviewReport{}); err != nil {
		return nil, fmt.Errorf("failed to migrate interview reports: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts the report for a session. Re-running the pipeline for the
// same session overwrites the previous row.
func (s *Store) Save(report *models.ScoredReport, plan json.RawMessage, sessionID string) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	row := models.InterviewReport{
		SessionID:      sessionID,
		JobTitle:       report.JobTitle,
		OverallPercent: report.Overall.Percent,
		ReportJSON:     string(reportJSON),
		PlanJSON:       string(plan),
		CompletedAt:    time.Now(),
	}

	var existing models.InterviewReport
	err = s.db.Where("session_id = ?", sessionID).First(&existing).Error
	if err == nil {
		row.ID = existing.ID
		return s.db.Save(&row).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return s.db.Create(&row).Error
}

// BySession loads the persisted report for a session, if any.
func (s *Store) BySession(sessionID string) (*models.InterviewReport, error) {
	var row models.InterviewReport
	if err := s.db.Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Unexported returns all reports that have not been exported yet.
func (s *Store) Unexported() ([]models.InterviewReport, error) {
	var rows []models.InterviewReport
	if err := s.db.Where("exported = ?", false).Order("completed_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkExported stamps the given reports as exported.
func (s *Store) MarkExported(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return s.db.Model(&models.InterviewReport{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"exported": true, "exported_at": now}).Error
}

// ToJSONL renders reports as newline delimited JSON for the export job.
func ToJSONL(rows []models.InterviewReport) ([]byte, error) {
	var out []byte
	for _, row := range rows {
		plan := json.RawMessage(row.PlanJSON)
		if len(plan) == 0 {
			plan = json.RawMessage("null")
		}
		line, err := json.Marshal(map[string]interface{}{
			"session_id":      row.SessionID,
			"job_title":       row.JobTitle,
			"overall_percent": row.OverallPercent,
			"report":          json.RawMessage(row.ReportJSON),
			"plan":            plan,
			"completed_at":    row.CompletedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report %s: %w", row.SessionID, err)
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}
