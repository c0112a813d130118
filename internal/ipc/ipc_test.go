package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"folio/internal/catalog"
	"folio/internal/daemon"
	"folio/internal/ipc"
	"folio/internal/library"
	"folio/internal/logging"
	"folio/internal/reconcile"
	"folio/internal/testsupport"
)

type stubReconciler struct {
	result *catalog.Metadata
}

func (r *stubReconciler) Reconcile(ctx context.Context, current *catalog.Metadata, query string, mode reconcile.Mode, withCover bool) (*catalog.Metadata, error) {
	return reconcile.Merge(current, r.result, mode, withCover), nil
}

func (r *stubReconciler) SearchCovers(ctx context.Context, record *catalog.Metadata) []string {
	return []string{"https://covers.example/1.jpg"}
}

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()
	lib := testsupport.NewLibrary(t, cfg, library.Options{
		Reconciler: &stubReconciler{result: &catalog.Metadata{
			Title:   "Dune",
			Authors: []string{"Frank Herbert"},
		}},
	})

	d, err := daemon.New(cfg, lib, nil, nil, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	itemPath := filepath.Join(cfg.Paths.LibraryDir, "dune.m4b")
	if err := lib.Add(ctx, &catalog.Item{ID: itemPath}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	socket := cfg.Paths.SocketPath
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() { srv.Close() })

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.Status.Stats.Items != 1 {
		t.Fatalf("expected 1 item in stats, got %d", status.Status.Stats.Items)
	}

	list, err := client.List(ipc.ListRequest{})
	if err != nil {
		t.Fatalf("List RPC failed: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != itemPath {
		t.Fatalf("unexpected listing: %+v", list.Items)
	}

	recResp, err := client.Reconcile(ipc.ReconcileRequest{ID: itemPath, Mode: "update"})
	if err != nil {
		t.Fatalf("Reconcile RPC failed: %v", err)
	}
	if recResp.Item.Title != "Dune" {
		t.Fatalf("reconcile result not committed: %+v", recResp.Item)
	}

	fav := true
	userResp, err := client.UserUpdate(ipc.UserUpdateRequest{
		ID:       itemPath,
		Favorite: &fav,
		AddTags:  []string{"sci-fi"},
	})
	if err != nil {
		t.Fatalf("UserUpdate RPC failed: %v", err)
	}
	if !userResp.Item.Favorite || len(userResp.Item.UserTags) != 1 {
		t.Fatalf("user update not applied: %+v", userResp.Item)
	}

	favs, err := client.List(ipc.ListRequest{FavoritesOnly: true})
	if err != nil {
		t.Fatalf("List favorites failed: %v", err)
	}
	if len(favs.Items) != 1 {
		t.Fatalf("favorites filter wrong: %+v", favs.Items)
	}

	coverSearch, err := client.CoverSearch(itemPath)
	if err != nil {
		t.Fatalf("CoverSearch RPC failed: %v", err)
	}
	if len(coverSearch.URLs) != 1 {
		t.Fatalf("unexpected cover candidates: %v", coverSearch.URLs)
	}

	desc, err := client.Describe(itemPath)
	if err != nil {
		t.Fatalf("Describe RPC failed: %v", err)
	}
	if desc.Item.Title != "Dune" || !desc.Item.Favorite {
		t.Fatalf("unexpected describe result: %+v", desc.Item)
	}

	if _, err := client.Describe("/nope"); err == nil {
		t.Fatal("expected error for unknown item")
	}

	note, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification RPC failed: %v", err)
	}
	if note.Sent {
		t.Fatalf("expected unsent result without an ntfy topic, got %+v", note)
	}

	logsResp, err := client.Logs(ipc.LogsRequest{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("Logs RPC failed: %v", err)
	}
	if logsResp.Offset != 0 || len(logsResp.Lines) != 0 {
		t.Fatalf("expected empty log chunk before any writes, got %+v", logsResp)
	}
}
