package jobqueue

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/resilience"
)

func discardLogger() *logging.Logger {
	return logging.NewNop()
}

func TestQStashPublisherEnqueue_SendsUpstashHeaders(t *testing.T) {
	t.Parallel()

	type captured struct {
		method     string
		requestURI string
		headers    http.Header
		body       string
	}
	got := make(chan captured, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got <- captured{
			method:     r.Method,
			requestURI: r.RequestURI,
			headers:    r.Header.Clone(),
			body:       string(raw),
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"msg-1"}`))
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.example.com",
		Retries:          3,
		InternalJobToken: "job-secret",
		CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: false},
	}, discardLogger())

	err := publisher.Enqueue(
		context.Background(),
		"/v1/internal/jobs/episodes/ep-1/lock-picks",
		map[string]any{"episode_id": "ep-1"},
		2*time.Hour,
		"lock-picks-ep-1-20260225T003000Z",
	)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	req := <-got
	if req.method != http.MethodPost {
		t.Fatalf("unexpected method: %s", req.method)
	}
	wantURI := "/v2/publish/https://api.example.com/v1/internal/jobs/episodes/ep-1/lock-picks"
	if req.requestURI != wantURI {
		t.Fatalf("unexpected request uri: %s", req.requestURI)
	}
	if auth := req.headers.Get("Authorization"); auth != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %s", auth)
	}
	if delay := req.headers.Get("Upstash-Delay"); delay != "7200s" {
		t.Fatalf("unexpected delay header: %s", delay)
	}
	if retries := req.headers.Get("Upstash-Retries"); retries != "3" {
		t.Fatalf("unexpected retries header: %s", retries)
	}
	if dedup := req.headers.Get("Upstash-Deduplication-Id"); dedup != "lock-picks-ep-1-20260225T003000Z" {
		t.Fatalf("unexpected deduplication header: %s", dedup)
	}
	if token := req.headers.Get("Upstash-Forward-X-Internal-Job-Token"); token != "job-secret" {
		t.Fatalf("unexpected forward token header: %s", token)
	}
	if !strings.Contains(req.body, `"episode_id":"ep-1"`) {
		t.Fatalf("unexpected body: %s", req.body)
	}
}

func TestQStashPublisherEnqueue_RequiresPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        "https://qstash.example.com",
		Token:          "qstash-token",
		TargetBaseURL:  "https://api.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, discardLogger())

	err := publisher.Enqueue(context.Background(), "  ", nil, 0, "")
	if err == nil || !strings.Contains(err.Error(), "job path is required") {
		t.Fatalf("expected job path error, got %v", err)
	}
}

func TestQStashPublisherEnqueue_ServerErrorsTripBreaker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		Token:         "qstash-token",
		TargetBaseURL: "https://api.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
		},
	}, discardLogger())

	for i := 0; i < 2; i++ {
		err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/episodes/ep-1/lock-picks", nil, 0, "")
		if !errors.Is(err, errQStashTransient) {
			t.Fatalf("expected transient error, got %v", err)
		}
	}

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/episodes/ep-1/lock-picks", nil, 0, "")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
}
