package jobs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"jobprep/interview/internal/results"

	"github.com/robfig/cron/v3"
)

// ReportExporterJob periodically dumps completed interview reports to
// JSONL files for offline analysis.
type ReportExporterJob struct {
	store  *results.Store
	config *ExporterConfig
	cron   *cron.Cron
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool   // Whether to run exports
}

func NewReportExporterJob(store *results.Store, config *ExporterConfig) *ReportExporterJob {
	return &ReportExporterJob{
		store:  store,
		config: config,
		cron:   cron.New(),
	}
}

// Start begins the scheduled export job
func (rej *ReportExporterJob) Start() error {
	if !rej.config.ExportEnabled {
		log.Println("Report export is disabled, skipping scheduler")
		return nil
	}

	log.Printf("Starting report exporter with schedule: %s", rej.config.Schedule)

	_, err := rej.cron.AddFunc(rej.config.Schedule, func() {
		if err := rej.RunExport(); err != nil {
			log.Printf("Export job failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	rej.cron.Start()
	log.Println("Report exporter started successfully")

	return nil
}

// Stop stops the scheduled export job
func (rej *ReportExporterJob) Stop() {
	if rej.cron != nil {
		rej.cron.Stop()
		log.Println("Report exporter stopped")
	}
}

// RunExport performs a single export run
func (rej *ReportExporterJob) RunExport() error {
	log.Println("Starting report export job...")

	reports, err := rej.store.Unexported()
	if err != nil {
		return fmt.Errorf("failed to get unexported reports: %w", err)
	}

	if len(reports) == 0 {
		log.Println("No unexported reports found")
		return nil
	}

	log.Printf("Found %d unexported reports", len(reports))

	jsonlData, err := results.ToJSONL(reports)
	if err != nil {
		return fmt.Errorf("failed to export to JSONL: %w", err)
	}

	if err := os.MkdirAll(rej.config.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("report_export_%s.jsonl", timestamp)
	path := filepath.Join(rej.config.ExportDir, filename)

	if err := os.WriteFile(path, jsonlData, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	log.Printf("Exported %d reports to %s", len(reports), path)

	ids := make([]uint, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}
	if err := rej.store.MarkExported(ids); err != nil {
		return fmt.Errorf("failed to mark as exported: %w", err)
	}

	return nil
}

// RunManual runs an export manually (for testing or on-demand exports)
func (rej *ReportExporterJob) RunManual() error {
	return rej.RunExport()
}
