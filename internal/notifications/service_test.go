package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"listenrate/internal/config"
	"listenrate/internal/notifications"
)

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, <-chan capturedRequest) {
	t.Helper()
	requests := make(chan capturedRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		requests <- capturedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, "topic full")
	}))
	t.Cleanup(server.Close)
	return server, requests
}

func serviceFor(url string) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = url
	cfg.Notifications.RequestTimeout = 5
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySessionCompleted(context.Background(), notifications.SessionReport{Trials: 3}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop test notification to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsSessionReports(t *testing.T) {
	tests := []struct {
		name           string
		report         notifications.SessionReport
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "success",
			report: notifications.SessionReport{
				SessionID: "3f2a9c1e-0000-4000-8000-000000000000",
				Trials:    30,
				Duration:  12*time.Minute + 400*time.Millisecond,
				Success:   true,
				Results:   "/data/results.json",
			},
			expectTitle:   "listenrate - Session Complete",
			expectMessage: "Session 3f2a9c1e finished: 30 trials in 12m0s\nResults: /data/results.json",
			expectTags:    "listenrate,session,completed",
		},
		{
			name: "with failures",
			report: notifications.SessionReport{
				SessionID: "abc",
				Trials:    30,
				Failures:  2,
				Duration:  90 * time.Second,
			},
			expectTitle:    "listenrate - Session Needs Attention",
			expectMessage:  "Session abc finished with 2 of 30 trials failed in 1m30s",
			expectTags:     "listenrate,session,warning",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, requests := newCaptureServer(t, http.StatusOK)
			if err := serviceFor(server.URL).NotifySessionCompleted(context.Background(), tc.report); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}
			captured := <-requests
			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceFormatsErrors(t *testing.T) {
	server, requests := newCaptureServer(t, http.StatusOK)
	if err := serviceFor(server.URL).NotifyError(context.Background(), errors.New("disk full"), "save"); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}
	captured := <-requests
	if captured.body != "Error during save: disk full" {
		t.Fatalf("unexpected body %q", captured.body)
	}
	if captured.priority != "high" {
		t.Fatalf("expected high priority, got %q", captured.priority)
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server, requests := newCaptureServer(t, http.StatusTooManyRequests)
	err := serviceFor(server.URL).TestNotification(context.Background())
	<-requests
	if err == nil || !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "topic full") {
		t.Fatalf("expected status error with body, got %v", err)
	}
}
