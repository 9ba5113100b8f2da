package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"jobprep/interview/internal/metrics"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/results"
	"jobprep/interview/internal/store"
)

// Submitter sends the answered set out for evaluation and the aggregated
// report out for learning-plan generation.
type Submitter interface {
	SubmitScores(ctx context.Context, submission models.ScoresSubmission) (*models.ScoresResponse, error)
	RequestLearningPlan(ctx context.Context, req models.LearningPlanRequest) (json.RawMessage, error)
}

// Result is what a pipeline run produced. Err is set when no report could
// be built at all; a report without a plan is a partial success, not an
// error.
type Result struct {
	Report *models.ScoredReport
	Plan   json.RawMessage
	Err    error
}

// Pipeline runs the post-interview chain: score, aggregate, request a
// learning plan, persist. The KV store and results store are optional;
// when absent their steps are skipped.
type Pipeline struct {
	submitter Submitter
	kv        store.Store
	results   *results.Store
	logger    *zap.Logger
}

func NewPipeline(submitter Submitter, kv store.Store, resultsStore *results.Store, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		submitter: submitter,
		kv:        kv,
		results:   resultsStore,
		logger:    logger,
	}
}

// BuildReport computes every numeric aggregate locally from the bullet
// evaluations; upstream-provided totals are ignored. Question text is
// re-attached from the answered set by question ID so the report never
// depends on the scorer echoing it back.
func BuildReport(set *models.QuestionSet, scores *models.ScoresResponse) *models.ScoredReport {
	textByID := make(map[string]string, len(set.Questions))
	kindByID := make(map[string]string, len(set.Questions))
	for _, q := range set.Questions {
		textByID[q.QuestionID] = q.Text
		kindByID[q.QuestionID] = q.Kind
	}

	jobTitle := scores.JobTitle
	if jobTitle == "" {
		jobTitle = set.JobTitle
	}
	report := &models.ScoredReport{
		JobTitle: jobTitle,
		Items:    make([]models.ScoredItem, 0, len(scores.Items)),
	}

	var totalWeightedRaw, totalWeightedMax float64
	for _, item := range scores.Items {
		var raw float64
		for _, b := range item.BulletEvals {
			raw += b.Score
		}
		max := float64(len(item.BulletEvals)) * 10

		item.RawScore = raw
		item.MaxScore = max
		if max > 0 {
			item.Percent = raw / max * 100
		} else {
			item.Percent = 0
		}
		item.Weight = 1.0
		item.WeightedRaw = raw * item.Weight
		item.WeightedMax = max * item.Weight

		if text, ok := textByID[item.QuestionID]; ok {
			item.Text = text
		}
		if kind, ok := kindByID[item.QuestionID]; ok {
			item.Kind = kind
		}

		totalWeightedRaw += item.WeightedRaw
		totalWeightedMax += item.WeightedMax
		report.Items = append(report.Items, item)
	}

	report.Overall = models.OverallScore{
		TotalScore: totalWeightedRaw,
		TotalMax:   totalWeightedMax,
	}
	if totalWeightedMax > 0 {
		report.Overall.Percent = totalWeightedRaw / totalWeightedMax * 100
	}
	return report
}

// Run executes the full chain for a finished session. Persistence steps
// are best effort and logged; the returned Result carries whatever was
// produced.
func (p *Pipeline) Run(ctx context.Context, sessionID string, set *models.QuestionSet) Result {
	scores, err := p.submitter.SubmitScores(ctx, models.ScoresSubmission{QuestionSet: *set})
	if err != nil {
		metrics.ObservePipelineRun("failed")
		return Result{Err: fmt.Errorf("score submission failed: %w", err)}
	}
	p.persist(ctx, store.KeyLastScoresResponse, scores)

	report := BuildReport(set, scores)
	p.persist(ctx, store.KeyLastLearningScores, report)

	plan, err := p.submitter.RequestLearningPlan(ctx, models.LearningPlanRequest{
		ScoredReport: *report,
		Threshold:    models.LearningThreshold,
		BudgetHours:  models.LearningBudgetHours,
		MaxResources: models.LearningMaxResources,
	})
	if err != nil {
		metrics.ObservePipelineRun("partial")
		p.logger.Warn("learning plan request failed",
			zap.String("session_id", sessionID), zap.Error(err))
	} else {
		metrics.ObservePipelineRun("ok")
		p.persistRaw(ctx, store.KeyLastLearningPlan, plan)
	}

	if p.results != nil {
		if err := p.results.Save(report, plan, sessionID); err != nil {
			p.logger.Warn("failed to persist interview report",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	p.logger.Info("scoring pipeline complete",
		zap.String("session_id", sessionID),
		zap.Float64("overall_percent", report.Overall.Percent),
		zap.Bool("plan_generated", len(plan) > 0))
	return Result{Report: report, Plan: plan}
}

func (p *Pipeline) persist(ctx context.Context, key string, value interface{}) {
	if p.kv == nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		p.logger.Warn("failed to encode value for store", zap.String("key", key), zap.Error(err))
		return
	}
	p.persistRaw(ctx, key, encoded)
}

func (p *Pipeline) persistRaw(ctx context.Context, key string, value []byte) {
	if p.kv == nil || len(value) == 0 {
		return
	}
	if err := p.kv.Set(ctx, key, string(value)); err != nil {
		p.logger.Warn("failed to persist value", zap.String("key", key), zap.Error(err))
	}
}
