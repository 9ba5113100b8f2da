package models

import "testing"

func TestStartInterviewRequestValidate(t *testing.T) {
	req := &StartInterviewRequest{JobTitle: "Engineer", JobDescription: "desc"}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if req.Difficulty != "medium" {
		t.Fatalf("expected medium default, got %q", req.Difficulty)
	}

	req = &StartInterviewRequest{JobTitle: "Engineer", JobDescription: "desc", Difficulty: " HARD "}
	if err := req.Validate(); err != nil {
		t.Fatalf("difficulty must be normalized, got error: %v", err)
	}
	if req.Difficulty != "hard" {
		t.Fatalf("expected normalized hard, got %q", req.Difficulty)
	}

	cases := []struct {
		name string
		req  StartInterviewRequest
		code string
	}{
		{"missing title", StartInterviewRequest{JobDescription: "x"}, "missing_job_title"},
		{"missing description", StartInterviewRequest{JobTitle: "x"}, "missing_job_description"},
		{"bad difficulty", StartInterviewRequest{JobTitle: "x", JobDescription: "y", Difficulty: "brutal"}, "invalid_difficulty"},
	}
	for _, tc := range cases {
		err := tc.req.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		resp, ok := err.(*ErrorResponse)
		if !ok || resp.Code != tc.code {
			t.Fatalf("%s: expected code %s, got %v", tc.name, tc.code, err)
		}
	}
}

func TestDifficultyRequestValidate(t *testing.T) {
	req := &DifficultyRequest{Difficulty: " Easy "}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid difficulty rejected: %v", err)
	}
	if req.Difficulty != "easy" {
		t.Fatalf("expected normalized easy, got %q", req.Difficulty)
	}

	if err := (&DifficultyRequest{}).Validate(); err == nil {
		t.Fatalf("empty difficulty must be rejected")
	}
}

func TestApplicationUpsertRequestValidate(t *testing.T) {
	req := &ApplicationUpsertRequest{ApplicationRecord: ApplicationRecord{Company: "Acme", Role: "Engineer"}}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid application rejected: %v", err)
	}
	if req.Status != "saved" {
		t.Fatalf("expected saved default, got %q", req.Status)
	}

	req = &ApplicationUpsertRequest{ApplicationRecord: ApplicationRecord{Company: "Acme", Role: "Engineer", Status: "ghosted"}}
	if err := req.Validate(); err == nil {
		t.Fatalf("invalid status must be rejected")
	}
}

func TestCoachMessageRequestValidate(t *testing.T) {
	if err := (&CoachMessageRequest{Content: "hi"}).Validate(); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	if err := (&CoachMessageRequest{Content: "  "}).Validate(); err == nil {
		t.Fatalf("blank message must be rejected")
	}
}

func TestExportResumeRequestValidate(t *testing.T) {
	req := &ExportResumeRequest{Sections: []ResumeSection{{Title: "Summary", Content: "x"}}}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid export rejected: %v", err)
	}
	if err := (&ExportResumeRequest{}).Validate(); err == nil {
		t.Fatalf("export without sections must be rejected")
	}
}
