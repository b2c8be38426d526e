package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"listenrate/internal/config"
)

const userAgent = "listenrate/0.1.0"

// SessionReport describes a finished session for operator alerts.
type SessionReport struct {
	SessionID string
	Trials    int
	Failures  int
	Duration  time.Duration
	Success   bool
	Results   string
}

// Service defines the alert surface used by the session commands.
type Service interface {
	NotifySessionCompleted(ctx context.Context, report SessionReport) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifySessionCompleted(ctx context.Context, report SessionReport) error {
	duration := report.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	data := payload{
		title:   "listenrate - Session Complete",
		message: fmt.Sprintf("Session %s finished: %d trials in %s", shortID(report.SessionID), report.Trials, duration),
		tags:    []string{"listenrate", "session", "completed"},
	}
	if !report.Success {
		data.title = "listenrate - Session Needs Attention"
		data.message = fmt.Sprintf("Session %s finished with %d of %d trials failed in %s", shortID(report.SessionID), report.Failures, report.Trials, duration)
		data.tags = []string{"listenrate", "session", "warning"}
		data.priority = "high"
	}
	if results := strings.TrimSpace(report.Results); results != "" {
		data.message += "\nResults: " + results
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	return n.send(ctx, payload{
		title:    "listenrate - Error",
		message:  builder.String(),
		tags:     []string{"listenrate", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "listenrate - Test",
		message:  "Booth notification test",
		tags:     []string{"listenrate", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// shortID trims a session UUID to its first group for phone-sized alerts.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

type noopService struct{}

func (noopService) NotifySessionCompleted(context.Context, SessionReport) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error           { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
