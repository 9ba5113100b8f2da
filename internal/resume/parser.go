package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"jobprep/interview/internal/llm"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/prompts"
)

var (
	ErrUnreadableResponse = errors.New("model returned an unreadable response")
	ErrNoSections         = errors.New("model did not return any usable sections")
)

var (
	jsonFenceRe = regexp.MustCompile("(?i)```json\\s*([\\s\\S]*?)```")
	slugRe      = regexp.MustCompile("[^a-z0-9]+")
)

// Parser turns raw resume text into normalized sections via the LLM.
type Parser struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	logger   *zap.Logger
}

func NewParser(provider llm.Provider, promptProvider prompts.PromptProvider, logger *zap.Logger) *Parser {
	return &Parser{provider: provider, prompts: promptProvider, logger: logger}
}

// ParseSections asks the model for structured sections and normalizes the
// result. Model output that cannot be decoded is an upstream fault, not a
// client one.
func (p *Parser) ParseSections(ctx context.Context, resumeText, requestID string) ([]models.ResumeSection, error) {
	prompt, err := p.prompts.BuildPrompt("parse_resume", "default", map[string]string{
		"ResumeText": resumeText,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build parse prompt: %w", err)
	}

	result, err := p.provider.GenerateContent(ctx, prompt, requestID)
	if err != nil {
		return nil, err
	}

	jsonText := ExtractJSON(result.Content)
	var parsed struct {
		Sections []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"sections"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		p.logger.Warn("failed to decode section payload",
			zap.String("request_id", requestID), zap.Error(err))
		return nil, ErrUnreadableResponse
	}

	raw := make([]models.ResumeSection, 0, len(parsed.Sections))
	for _, s := range parsed.Sections {
		raw = append(raw, models.ResumeSection{Title: s.Title, Content: s.Content})
	}
	return NormalizeSections(raw)
}

// NormalizeSections trims sections, drops empty ones and assigns stable
// slug IDs derived from the title.
func NormalizeSections(sections []models.ResumeSection) ([]models.ResumeSection, error) {
	normalized := make([]models.ResumeSection, 0, len(sections))
	for i, s := range sections {
		title := strings.TrimSpace(s.Title)
		content := strings.TrimSpace(s.Content)
		if content == "" {
			continue
		}
		if title == "" {
			title = fmt.Sprintf("Section %d", i+1)
		}
		normalized = append(normalized, models.ResumeSection{
			ID:      SectionID(title, i),
			Title:   title,
			Content: content,
		})
	}
	if len(normalized) == 0 {
		return nil, ErrNoSections
	}
	return normalized, nil
}

// SectionID slugifies a title into an identifier, falling back to a
// positional one when nothing survives slugification.
func SectionID(title string, index int) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fmt.Sprintf("section-%d", index+1)
	}
	return slug
}

// ExtractJSON strips a ```json fence when present; otherwise the raw text
// is returned trimmed.
func ExtractJSON(raw string) string {
	if match := jsonFenceRe.FindStringSubmatch(raw); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(raw)
}
