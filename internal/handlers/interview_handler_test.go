package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/routers"
)

func newInterviewServer(t *testing.T, questions *fakeQuestions) (string, *kvStub) {
	t.Helper()
	kv := newKVStub()
	manager := newTestManager(t, questions, kv)
	handler := handlers.NewInterviewHandler(manager, nil, kv, zap.NewNop())
	server := newServer(t, func(router *chi.Mux) {
		routers.InterviewRoutes(router, handler)
	})
	return server.URL, kv
}

func startRequestBody() map[string]string {
	return map[string]string{
		"job_title":       "Backend Engineer",
		"job_description": "Build Go services",
		"difficulty":      "easy",
	}
}

func TestStartInterview(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	status, body := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	if body["state"] != "ready" {
		t.Fatalf("expected ready state, got %v", body["state"])
	}
	if body["question_count"] != float64(2) || body["question_index"] != float64(0) {
		t.Fatalf("unexpected question progress: %v", body)
	}
	if body["countdown"] != float64(30) {
		t.Fatalf("expected fresh countdown, got %v", body["countdown"])
	}
}

func TestStartInterviewValidation(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	status, body := doJSON(t, http.MethodPost, base+"/api/v1/interviews", map[string]string{
		"job_description": "desc only",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if errorCode(t, body) != "missing_job_title" {
		t.Fatalf("unexpected error code: %v", body)
	}

	status, body = doJSON(t, http.MethodPost, base+"/api/v1/interviews", map[string]string{
		"job_title":       "x",
		"job_description": "y",
		"difficulty":      "impossible",
	})
	if status != http.StatusBadRequest || errorCode(t, body) != "invalid_difficulty" {
		t.Fatalf("expected invalid_difficulty, got %d %v", status, body)
	}
}

func TestStartInterviewFetchFailure(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{err: errors.New("upstream down")})

	status, body := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	if status != http.StatusBadGateway || errorCode(t, body) != "question_fetch_failed" {
		t.Fatalf("expected 502 question_fetch_failed, got %d %v", status, body)
	}
}

func TestGetUnknownSession(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	status, body := doJSON(t, http.MethodGet, base+"/api/v1/interviews/nope", nil)
	if status != http.StatusNotFound || errorCode(t, body) != "session_not_found" {
		t.Fatalf("expected 404 session_not_found, got %d %v", status, body)
	}
}

func TestAnswerAndAdvanceFlow(t *testing.T) {
	base, kv := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	_, created := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	id := sessionID(t, created)

	status, body := doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/answer",
		map[string]string{"text": "my answer"})
	if status != http.StatusOK || body["answer"] != "my answer" {
		t.Fatalf("unexpected answer response: %d %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/advance", nil)
	if status != http.StatusOK || body["question_index"] != float64(1) {
		t.Fatalf("unexpected advance response: %d %v", status, body)
	}

	// advancing past the last question completes the session and runs the
	// scoring pipeline synchronously
	status, body = doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/advance", nil)
	if status != http.StatusOK || body["state"] != "complete" {
		t.Fatalf("expected complete session, got %d %v", status, body)
	}
	if len(kv.data) == 0 {
		t.Fatalf("pipeline results were not persisted")
	}

	status, body = doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/advance", nil)
	if status != http.StatusConflict || errorCode(t, body) != "session_complete" {
		t.Fatalf("expected 409 session_complete, got %d %v", status, body)
	}
}

func TestSkipDiscardsAnswer(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	_, created := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	id := sessionID(t, created)

	doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/answer",
		map[string]string{"text": "draft to discard"})

	status, body := doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/skip", nil)
	if status != http.StatusOK {
		t.Fatalf("skip failed: %d %v", status, body)
	}
	if body["question_index"] != float64(1) || body["answer"] != "" {
		t.Fatalf("unexpected view after skip: %v", body)
	}
}

func TestDifficultyRestart(t *testing.T) {
	questions := &fakeQuestions{set: defaultQuestionSet()}
	base, _ := newInterviewServer(t, questions)

	_, created := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	id := sessionID(t, created)

	doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/advance", nil)

	status, body := doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/difficulty",
		map[string]string{"difficulty": "hard"})
	if status != http.StatusOK {
		t.Fatalf("difficulty change failed: %d %v", status, body)
	}
	if body["difficulty"] != "hard" || body["question_index"] != float64(0) {
		t.Fatalf("expected restart on hard from question 0, got %v", body)
	}
	if questions.calls != 2 {
		t.Fatalf("expected a second question fetch, got %d", questions.calls)
	}
}

func TestRecordingEndpoint(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	_, created := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	id := sessionID(t, created)

	body, contentType := multipartBody(t, map[string]string{"duration_ms": "2000"},
		"file", "take1.webm", []byte("audio-bytes"))
	resp, err := http.Post(base+"/api/v1/interviews/"+id+"/recordings", contentType, body)
	if err != nil {
		t.Fatalf("recording request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var decoded struct {
		Transcription string                 `json:"transcription"`
		Session       map[string]interface{} `json:"session"`
	}
	if err := decodeBody(resp, &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Transcription != "spoken words" {
		t.Fatalf("unexpected transcription: %q", decoded.Transcription)
	}
	if decoded.Session["answer"] != "spoken words" {
		t.Fatalf("transcript must land in the answer buffer: %v", decoded.Session["answer"])
	}
}

func TestRecordingTooShortIsDropped(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	_, created := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	id := sessionID(t, created)

	body, contentType := multipartBody(t, map[string]string{"duration_ms": "200"},
		"file", "take1.webm", []byte("audio-bytes"))
	resp, err := http.Post(base+"/api/v1/interviews/"+id+"/recordings", contentType, body)
	if err != nil {
		t.Fatalf("recording request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var decoded struct {
		Transcription string `json:"transcription"`
	}
	if err := decodeBody(resp, &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Transcription != "" {
		t.Fatalf("short recording must not be transcribed, got %q", decoded.Transcription)
	}
}

func TestReportFallsBackToStoredScores(t *testing.T) {
	base, _ := newInterviewServer(t, &fakeQuestions{set: defaultQuestionSet()})

	_, created := doJSON(t, http.MethodPost, base+"/api/v1/interviews", startRequestBody())
	id := sessionID(t, created)

	// no report before the session completes
	status, body := doJSON(t, http.MethodGet, base+"/api/v1/interviews/"+id+"/report", nil)
	if status != http.StatusNotFound || errorCode(t, body) != "report_not_found" {
		t.Fatalf("expected 404 before completion, got %d %v", status, body)
	}

	doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/advance", nil)
	doJSON(t, http.MethodPost, base+"/api/v1/interviews/"+id+"/advance", nil)

	status, body = doJSON(t, http.MethodGet, base+"/api/v1/interviews/"+id+"/report", nil)
	if status != http.StatusOK {
		t.Fatalf("expected report after completion, got %d %v", status, body)
	}
	if body["scored_report"] == nil {
		t.Fatalf("missing scored_report: %v", body)
	}
	if body["learning_plan"] == nil {
		t.Fatalf("missing learning_plan: %v", body)
	}
}
