package aiplan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/planriseapp/planrise/internal/constants"
	"github.com/planriseapp/planrise/internal/models"
)

func testRequest() models.PlanRequest {
	return models.PlanRequest{
		BookName:       "Linear Algebra",
		Subject:        "Math",
		TaskType:       constants.TaskTypeGeneric,
		TotalPages:     20,
		MinutesPerPage: 3,
		StartPage:      1,
		StartDate:      "2026-01-05",
		DueDate:        "2026-01-09",
	}
}

func testSettings() models.Settings {
	return models.Settings{
		WeekdayMinutes: map[int]int{1: 150, 2: 150, 3: 150, 4: 150, 5: 150},
		OffDays:        []int{0, 6},
		BufferRatio:    0.2,
	}
}

func TestClient_ParsesScheduleFromOutputText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"output_text": "Here is the plan: {\"schedule\":[{\"date\":\"2026-01-05\",\"minutes\":30,\"pages\":10,\"page_from\":1,\"page_to\":10,\"status\":\"pending\"},{\"date\":\"2026-01-06\",\"minutes\":30,\"pages\":10,\"page_from\":11,\"page_to\":20,\"status\":\"pending\"}]}"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	entries, err := client.GenerateSchedule(context.Background(), testRequest(), testSettings())
	if err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].PageFrom != 11 || entries[1].PageTo != 20 {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestClient_ParsesScheduleFromContentParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[{"content":[{"type":"output_text","text":"{\"schedule\":[{\"date\":\"2026-01-05\",\"minutes\":60,\"pages\":20,\"page_from\":1,\"page_to\":20,\"status\":\"pending\"}]}"}]}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	entries, err := client.GenerateSchedule(context.Background(), testRequest(), testSettings())
	if err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Pages != 20 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestClient_TypedErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","code":"rate_limited","message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.GenerateSchedule(context.Background(), testRequest(), testSettings())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.HTTPStatus != http.StatusTooManyRequests || apiErr.ErrorType != "rate_limit_error" {
		t.Errorf("unexpected error payload: %+v", apiErr)
	}
}

func TestClient_RejectsOutputWithoutJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output_text": "I cannot produce a plan."}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.GenerateSchedule(context.Background(), testRequest(), testSettings()); err == nil {
		t.Error("expected error for output without JSON")
	}
}

func TestClient_UnconfiguredIsUnavailable(t *testing.T) {
	client := NewClient(Config{})
	if client.Available() {
		t.Error("expected client without API key to be unavailable")
	}
	if _, err := client.GenerateSchedule(context.Background(), testRequest(), testSettings()); err == nil {
		t.Error("expected error from unconfigured client")
	}
}

func TestBuildSchedule_FallsBackWhenCandidateInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Covers only 10 of the 20 requested pages
		w.Write([]byte(`{"output_text": "{\"schedule\":[{\"date\":\"2026-01-05\",\"minutes\":30,\"pages\":10,\"page_from\":1,\"page_to\":10,\"status\":\"pending\"}]}"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	entries, source, err := BuildSchedule(context.Background(), client, testRequest(), testSettings())
	if err != nil {
		t.Fatalf("BuildSchedule failed: %v", err)
	}
	if source != SourceFallback {
		t.Errorf("expected fallback source, got %s", source)
	}

	total := 0
	for _, entry := range entries {
		total += entry.Pages
	}
	if total != 20 {
		t.Errorf("fallback schedule covers %d pages, want 20", total)
	}
}

func TestBuildSchedule_UsesValidCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output_text": "{\"schedule\":[{\"date\":\"2026-01-05\",\"minutes\":30,\"pages\":10,\"page_from\":1,\"page_to\":10,\"status\":\"pending\"},{\"date\":\"2026-01-06\",\"minutes\":30,\"pages\":10,\"page_from\":11,\"page_to\":20,\"status\":\"pending\"}]}"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, source, err := BuildSchedule(context.Background(), client, testRequest(), testSettings())
	if err != nil {
		t.Fatalf("BuildSchedule failed: %v", err)
	}
	if source != SourceOpenAI {
		t.Errorf("expected openai source, got %s", source)
	}
}

func TestBuildSchedule_NilGeneratorUsesAllocator(t *testing.T) {
	entries, source, err := BuildSchedule(context.Background(), nil, testRequest(), testSettings())
	if err != nil {
		t.Fatalf("BuildSchedule failed: %v", err)
	}
	if source != SourceFallback || len(entries) == 0 {
		t.Errorf("expected fallback allocation, got source=%s entries=%d", source, len(entries))
	}
}
