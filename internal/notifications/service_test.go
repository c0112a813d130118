package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"folio/internal/config"
	"folio/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, sink *[]captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*sink = append(*sink, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyReconcileCompleted(context.Background(), "Dune", "enhance"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "scan"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	var sink []captured
	server := newCaptureServer(t, &sink)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Reconcile = true
	cfg.Notifications.Errors = true
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyReconcileCompleted(ctx, "Dune", "update"); err != nil {
		t.Fatalf("NotifyReconcileCompleted: %v", err)
	}
	if err := svc.NotifyLibraryScanned(ctx, 42); err != nil {
		t.Fatalf("NotifyLibraryScanned: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "reconcile"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	if len(sink) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(sink))
	}
	if sink[0].title != "Folio - Metadata Updated" || !strings.Contains(sink[0].body, "Dune") || !strings.Contains(sink[0].body, "update") {
		t.Fatalf("unexpected reconcile notification: %+v", sink[0])
	}
	if !strings.Contains(sink[1].body, "42") {
		t.Fatalf("unexpected scan notification: %+v", sink[1])
	}
	if sink[2].priority != "high" || !strings.Contains(sink[2].body, "boom") {
		t.Fatalf("unexpected error notification: %+v", sink[2])
	}
}

func TestNtfyServiceHonorsEventToggles(t *testing.T) {
	var sink []captured
	server := newCaptureServer(t, &sink)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Reconcile = false
	cfg.Notifications.Errors = false
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyReconcileCompleted(ctx, "Dune", "enhance"); err != nil {
		t.Fatalf("NotifyReconcileCompleted: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "scan"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if len(sink) != 0 {
		t.Fatalf("disabled events must not publish: %+v", sink)
	}
}

func TestNtfyServiceSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.NotifyLibraryScanned(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}
