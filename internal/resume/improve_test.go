package resume

import (
	"context"
	"strings"
	"testing"

	"jobprep/interview/internal/models"
)

func TestImproveSection(t *testing.T) {
	provider := &mockProvider{content: "Led a team of five engineers."}
	pm := &mockPrompts{}
	imp := NewImprover(provider, pm)

	req := models.ImproveSectionRequest{
		Title:          "Work Experience",
		JobTitle:       "Backend Engineer",
		JobDescription: "Go services",
		Content:        "worked on stuff",
	}
	improved, err := imp.ImproveSection(context.Background(), req, "req-1")
	if err != nil {
		t.Fatalf("ImproveSection error: %v", err)
	}
	if improved != "Led a team of five engineers." {
		t.Fatalf("unexpected improvement: %q", improved)
	}
	if pm.lastMode != "improve_section" || pm.lastData["Content"] != "worked on stuff" {
		t.Fatalf("unexpected prompt build: mode=%s data=%v", pm.lastMode, pm.lastData)
	}
}

func TestImproveSectionStripsFences(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"plain fence", "```\nBetter text.\n```", "Better text."},
		{"language fence", "```markdown\nBetter text.\n```", "Better text."},
		{"no fence", "Better text.", "Better text."},
	}
	for _, tc := range cases {
		imp := NewImprover(&mockProvider{content: tc.content}, &mockPrompts{})
		improved, err := imp.ImproveSection(context.Background(), models.ImproveSectionRequest{Content: "x"}, "req-1")
		if err != nil {
			t.Fatalf("%s: ImproveSection error: %v", tc.name, err)
		}
		if improved != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, improved, tc.want)
		}
	}
}

func TestImproveSectionTruncates(t *testing.T) {
	imp := NewImprover(&mockProvider{content: strings.Repeat("b", MaxImprovedChars+200)}, &mockPrompts{})

	improved, err := imp.ImproveSection(context.Background(), models.ImproveSectionRequest{Content: "x"}, "req-1")
	if err != nil {
		t.Fatalf("ImproveSection error: %v", err)
	}
	if len(improved) != MaxImprovedChars {
		t.Fatalf("expected truncation to %d chars, got %d", MaxImprovedChars, len(improved))
	}
}

func TestImproveSectionEmptyResult(t *testing.T) {
	imp := NewImprover(&mockProvider{content: "```\n\n```"}, &mockPrompts{})

	if _, err := imp.ImproveSection(context.Background(), models.ImproveSectionRequest{Content: "x"}, "req-1"); err != ErrEmptyImprovement {
		t.Fatalf("expected ErrEmptyImprovement, got %v", err)
	}
}
