package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"jobprep/interview/internal/models"
	"jobprep/interview/internal/scoring"
	"jobprep/interview/internal/session"
	"jobprep/interview/internal/store"
)

// kvStub is an in-memory store.Store for handler tests.
type kvStub struct {
	data map[string]string
}

func newKVStub() *kvStub {
	return &kvStub{data: make(map[string]string)}
}

func (s *kvStub) Get(ctx context.Context, key string) (string, error) {
	val, ok := s.data[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return val, nil
}

func (s *kvStub) Set(ctx context.Context, key, value string) error {
	s.data[key] = value
	return nil
}

func (s *kvStub) Has(ctx context.Context, key string) (bool, error) {
	_, ok := s.data[key]
	return ok, nil
}

func (s *kvStub) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

type fakeQuestions struct {
	set   *models.QuestionSet
	err   error
	calls int
}

func (f *fakeQuestions) FetchQuestions(ctx context.Context, req models.QuestionRequest) (*models.QuestionSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	set := *f.set
	set.Questions = append([]models.Question(nil), f.set.Questions...)
	return &set, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	return f.text, f.err
}

type fakeSubmitter struct{}

func (fakeSubmitter) SubmitScores(ctx context.Context, submission models.ScoresSubmission) (*models.ScoresResponse, error) {
	items := make([]models.ScoredItem, 0, len(submission.QuestionSet.Questions))
	for _, q := range submission.QuestionSet.Questions {
		items = append(items, models.ScoredItem{
			QuestionID:  q.QuestionID,
			BulletEvals: []models.BulletEval{{Criterion: "clarity", Score: 8}},
		})
	}
	return &models.ScoresResponse{
		JobTitle: submission.QuestionSet.JobTitle,
		Items:    items,
	}, nil
}

func (fakeSubmitter) RequestLearningPlan(ctx context.Context, req models.LearningPlanRequest) (json.RawMessage, error) {
	return json.RawMessage(`{"tracks":[]}`), nil
}

func defaultQuestionSet() *models.QuestionSet {
	return &models.QuestionSet{
		JobTitle: "Backend Engineer",
		Questions: []models.Question{
			{QuestionID: "q1", Kind: models.KindBehavioral, Text: "Tell me about a conflict."},
			{QuestionID: "q2", Kind: models.KindTechnical, Text: "Explain indexes."},
		},
	}
}

func newTestManager(t *testing.T, questions *fakeQuestions, kv store.Store) *session.Manager {
	t.Helper()
	logger := zap.NewNop()
	pipeline := scoring.NewPipeline(fakeSubmitter{}, kv, nil, logger)
	manager := session.NewManager(questions, pipeline, &fakeTranscriber{text: "spoken words"}, logger)
	t.Cleanup(manager.Stop)
	return manager
}

func newServer(t *testing.T, mount func(router *chi.Mux)) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	mount(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// doJSON sends a JSON request and decodes the JSON response body.
func doJSON(t *testing.T, method, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 && json.Valid(raw) && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("failed to decode response: %v (%s)", err, raw)
		}
	}
	return resp.StatusCode, decoded
}

func jsonBody(t *testing.T, payload interface{}) (io.Reader, string) {
	t.Helper()
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return bytes.NewReader(encoded), "application/json"
}

func decodeBody(resp *http.Response, out interface{}) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

// multipartBody builds a multipart form with optional fields and one file.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	code, _ := body["code"].(string)
	if code == "" {
		t.Fatalf("expected an error body, got %v", body)
	}
	return code
}

func sessionID(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatalf("expected a session_id, got %v", body)
	}
	return id
}
