package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobprep/interview/internal/models"
)

// Client talks to the Python AI service. Every endpoint is a thin proxy:
// payloads are passed through with defaults filled in, never reshaped.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) statusError(path string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.logger.Warn("upstream request failed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", snippet))
	return fmt.Errorf("%s returned HTTP %d", path, resp.StatusCode)
}

// SearchJobs proxies the job search with the upstream default query.
func (c *Client) SearchJobs(ctx context.Context, params models.JobSearchParams) ([]models.JobListing, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.NumPages <= 0 {
		params.NumPages = 1
	}
	if params.Country == "" {
		params.Country = "us"
	}
	if params.DatePosted == "" {
		params.DatePosted = "today"
	}
	if params.JobRequirements == "" {
		params.JobRequirements = "under_3_years_experience"
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("num_pages", strconv.Itoa(params.NumPages))
	q.Set("country", params.Country)
	q.Set("date_posted", params.DatePosted)
	q.Set("job_requirements", params.JobRequirements)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("/jobs request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("/jobs", resp)
	}

	var listings []models.JobListing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("failed to decode /jobs response: %w", err)
	}
	return listings, nil
}

// AnalyzeJob proxies a job description through the analysis endpoint.
func (c *Client) AnalyzeJob(ctx context.Context, jobDescription string) (*models.JobAnalysisResponse, error) {
	var out models.JobAnalysisResponse
	payload := map[string]string{"job_description": jobDescription}
	if err := c.postJSON(ctx, "/analysis/job", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchQuestions requests a tailored question set.
func (c *Client) FetchQuestions(ctx context.Context, req models.QuestionRequest) (*models.QuestionSet, error) {
	var out models.QuestionSet
	if err := c.postJSON(ctx, "/questions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitScores sends the answered question set for evaluation.
func (c *Client) SubmitScores(ctx context.Context, submission models.ScoresSubmission) (*models.ScoresResponse, error) {
	var out models.ScoresResponse
	if err := c.postJSON(ctx, "/scores", submission, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestLearningPlan submits the aggregated report and returns the plan
// verbatim; its shape is owned upstream.
func (c *Client) RequestLearningPlan(ctx context.Context, req models.LearningPlanRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.postJSON(ctx, "/learning", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Guide fetches follow-up guidance. A non-JSON body is tolerated and
// wrapped under a "text" key so callers see one shape.
func (c *Client) Guide(ctx context.Context, guideReq models.GuideRequest) (map[string]interface{}, error) {
	body, err := json.Marshal(guideReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode /coach/guide payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/coach/guide", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("/coach/guide request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("/coach/guide", resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var payload map[string]interface{}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode /coach/guide response: %w", err)
		}
		return payload, nil
	}
	return map[string]interface{}{"text": string(raw)}, nil
}

// Speak synthesizes speech for the given text and returns the audio bytes.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts/speak", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("/tts/speak request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("/tts/speak", resp)
	}
	return io.ReadAll(resp.Body)
}

// Transcribe sends a recording for speech-to-text and returns the
// transcription, which may legitimately be empty.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts/transcribe", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("/tts/transcribe request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", c.statusError("/tts/transcribe", resp)
	}

	var result struct {
		Transcription string `json:"transcription"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode /tts/transcribe response: %w", err)
	}
	return result.Transcription, nil
}
