package ipc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"folio/internal/daemon"
	"folio/internal/library"
	"folio/internal/logging"
	"folio/internal/notifications"
	"folio/internal/persist"
	"folio/internal/testsupport"
)

// Delivery failures must surface through the response payload: net/rpc drops
// the reply struct whenever the handler returns an error.
func TestTestNotificationReportsDeliveryFailure(t *testing.T) {
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer ntfy.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(ntfy.URL))
	store, err := persist.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("persist.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	lib := library.NewStore(library.Options{Persister: store})

	d, err := daemon.New(cfg, lib, nil, notifications.NewService(cfg), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	svc := &service{daemon: d, logger: logging.NewNop(), ctx: context.Background()}

	var resp TestNotificationResponse
	if err := svc.TestNotification(TestNotificationRequest{}, &resp); err != nil {
		t.Fatalf("handler must not return an error, got %v", err)
	}
	if resp.Sent {
		t.Fatal("failed delivery must report Sent=false")
	}
	if resp.Message == "" {
		t.Fatal("failed delivery must carry a message")
	}
}
