package aiplan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/planriseapp/planrise/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/responses"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
)

// Generator produces a candidate schedule for a plan request. Candidates must
// be validated against the allocator's page-partition invariant before use.
type Generator interface {
	GenerateSchedule(ctx context.Context, request models.PlanRequest, settings models.Settings) ([]models.ScheduleEntry, error)
	Available() bool
}

// Config holds the AI plan client configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls an OpenAI-style responses endpoint to draft a schedule.
type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Available reports whether the client is configured with an API key.
func (c *Client) Available() bool {
	return c.cfg.APIKey != ""
}

// APIError is a typed error payload from the responses endpoint.
type APIError struct {
	HTTPStatus int
	ErrorType  string
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai plan request failed: %s (type=%s, status=%d)", e.Message, e.ErrorType, e.HTTPStatus)
}

type apiRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type apiResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

type candidatePlan struct {
	Schedule []models.ScheduleEntry `json:"schedule"`
}

// GenerateSchedule asks the model for a day-by-day distribution of the
// requested pages. The response must be a single JSON object; anything else
// is an error and the caller falls back to the local allocator.
func (c *Client) GenerateSchedule(ctx context.Context, request models.PlanRequest, settings models.Settings) ([]models.ScheduleEntry, error) {
	if !c.Available() {
		return nil, fmt.Errorf("ai plan client is not configured")
	}

	payload, err := json.Marshal(apiRequest{
		Model: c.cfg.Model,
		Input: buildPrompt(request, settings),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai plan request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, parseErrorPayload(res.StatusCode, body)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	text := responseText(parsed)
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var candidate candidatePlan
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return nil, fmt.Errorf("candidate schedule is not valid JSON: %w", err)
	}
	return candidate.Schedule, nil
}

func buildPrompt(request models.PlanRequest, settings models.Settings) string {
	requestJSON, _ := json.Marshal(request)
	settingsJSON, _ := json.Marshal(settings)
	return strings.Join([]string{
		"You are a study schedule coach. Respond with a single JSON object and nothing else.",
		"Rules:",
		"- never assign work to off days",
		"- keep a safety buffer: use at most the configured share of each day's minutes",
		"- distribute by whole pages per date; minutes follow pages",
		`- response schema: {"schedule":[{"date":"YYYY-MM-DD","minutes":120,"pages":10,"page_from":1,"page_to":10,"status":"pending"}]}`,
		"User settings: " + string(settingsJSON),
		"Request: " + string(requestJSON),
	}, "\n")
}

// responseText collects the model output from either the direct output_text
// field or the structured output content parts.
func responseText(res apiResponse) string {
	if direct := strings.TrimSpace(res.OutputText); direct != "" {
		return direct
	}

	var chunks []string
	for _, item := range res.Output {
		for _, part := range item.Content {
			if part.Type != "output_text" && part.Type != "text" {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				chunks = append(chunks, text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(chunks, "\n"))
}

// extractJSON pulls the outermost JSON object out of the model output, which
// may be wrapped in prose or code fences.
func extractJSON(text string) (string, error) {
	clean := strings.TrimSpace(text)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return clean[start : end+1], nil
}

func parseErrorPayload(status int, body []byte) *APIError {
	var payload struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error.Message == "" {
		return &APIError{
			HTTPStatus: status,
			ErrorType:  "http_error",
			Message:    shortText(string(body), status),
		}
	}
	return &APIError{
		HTTPStatus: status,
		ErrorType:  payload.Error.Type,
		ErrorCode:  payload.Error.Code,
		Message:    shortText(payload.Error.Message, status),
	}
}

func shortText(text string, status int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Sprintf("HTTP %d", status)
	}
	const max = 220
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
