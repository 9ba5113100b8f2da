package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobprep/interview/internal/llm"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/prompts"
)

// MaxImprovedChars caps the rewritten section so a rambling model cannot
// blow up the editor.
const MaxImprovedChars = 1800

var ErrEmptyImprovement = errors.New("model returned an empty improvement")

// Improver rewrites a single resume section via the LLM.
type Improver struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
}

func NewImprover(provider llm.Provider, promptProvider prompts.PromptProvider) *Improver {
	return &Improver{provider: provider, prompts: promptProvider}
}

// ImproveSection rewrites the section and returns plain text: fences
// stripped, trimmed, truncated to MaxImprovedChars.
func (imp *Improver) ImproveSection(ctx context.Context, req models.ImproveSectionRequest, requestID string) (string, error) {
	prompt, err := imp.prompts.BuildPrompt("improve_section", "default", map[string]string{
		"Title":          req.Title,
		"JobTitle":       req.JobTitle,
		"JobDescription": req.JobDescription,
		"Content":        req.Content,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build improve prompt: %w", err)
	}

	result, err := imp.provider.GenerateContent(ctx, prompt, requestID)
	if err != nil {
		return "", err
	}

	improved := strings.TrimSpace(stripFences(result.Content))
	if improved == "" {
		return "", ErrEmptyImprovement
	}
	if len(improved) > MaxImprovedChars {
		improved = strings.TrimSpace(improved[:MaxImprovedChars])
	}
	return improved, nil
}

func stripFences(text string) string {
	clean := strings.TrimSpace(text)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
		if idx := strings.Index(clean, "\n"); idx >= 0 && !strings.ContainsAny(clean[:idx], " \t") {
			// Drop a language tag on the opening fence line.
			clean = clean[idx+1:]
		}
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}
	return strings.TrimSpace(clean)
}
