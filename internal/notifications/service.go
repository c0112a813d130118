package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"folio/internal/config"
)

const userAgent = "Folio/0.1.0"

// Service defines the notification surface exposed to daemon components.
type Service interface {
	NotifyReconcileCompleted(ctx context.Context, title, mode string) error
	NotifyCoverUpdated(ctx context.Context, title string) error
	NotifyLibraryScanned(ctx context.Context, count int) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
	Enabled() bool
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
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		reconcile: cfg.Notifications.Reconcile,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	reconcile bool
	errors    bool
}

func (n *ntfyService) NotifyReconcileCompleted(ctx context.Context, title, mode string) error {
	if !n.reconcile {
		return nil
	}
	title = strings.TrimSpace(title)
	mode = strings.TrimSpace(mode)
	if mode == "" {
		mode = "enhance"
	}
	data := payload{
		title:   "Folio - Metadata Updated",
		message: fmt.Sprintf("Reconciled: %s (%s)", title, mode),
		tags:    []string{"folio", "reconcile", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCoverUpdated(ctx context.Context, title string) error {
	if !n.reconcile {
		return nil
	}
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Folio - Cover Updated",
		message: fmt.Sprintf("New cover stored for: %s", title),
		tags:    []string{"folio", "cover", "updated"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLibraryScanned(ctx context.Context, count int) error {
	data := payload{
		title:   "Folio - Scan Complete",
		message: fmt.Sprintf("Library scan complete: %d audiobooks tracked", count),
		tags:    []string{"folio", "scan", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Folio - Error",
		message:  builder.String(),
		tags:     []string{"folio", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Folio - Test",
		message:  "Notification system test",
		tags:     []string{"folio", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
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

type noopService struct{}

func (noopService) NotifyReconcileCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyCoverUpdated(context.Context, string) error               { return nil }
func (noopService) NotifyLibraryScanned(context.Context, int) error                { return nil }
func (noopService) NotifyError(context.Context, error, string) error               { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }
func (noopService) Enabled() bool                                                  { return false }

func (n *ntfyService) Enabled() bool { return true }
