package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"folio/internal/daemon"
	"folio/internal/library"
	"folio/internal/logging"
	"folio/internal/scan"
	"folio/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.NewLibrary(t, cfg, library.Options{})

	d, err := daemon.New(cfg, lib, nil, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !d.Running() {
		t.Fatal("daemon should report running")
	}

	status := d.Status()
	if !status.Running || status.PID != os.Getpid() {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.LockFilePath != cfg.LockPath() {
		t.Fatalf("unexpected lock path: %s", status.LockFilePath)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("second Start must fail while running")
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon should report stopped")
	}
	// Restart after a clean stop must succeed.
	if err := d.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	d.Stop()
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.NewLibrary(t, cfg, library.Options{})

	first, err := daemon.New(cfg, lib, nil, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { first.Close() })
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := daemon.New(cfg, lib, nil, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { second.Close() })
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("second instance must be rejected by the lock")
	}
}

func TestDaemonRunsInitialScan(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.LibraryDir, "dune.m4b")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := testsupport.NewLibrary(t, cfg, library.Options{})
	scanner, err := scan.New(scan.Config{
		Catalog:    lib,
		Root:       cfg.Paths.LibraryDir,
		Extensions: cfg.Scan.Extensions,
	})
	if err != nil {
		t.Fatalf("scan.New: %v", err)
	}

	d, err := daemon.New(cfg, lib, scanner, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := lib.GetByID(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("initial scan did not populate the library")
}

func TestDaemonRejectsMissingLibraryDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.LibraryDir = filepath.Join(cfg.Paths.DataDir, "does-not-exist")

	lib := testsupport.NewLibrary(t, cfg, library.Options{})
	d, err := daemon.New(cfg, lib, nil, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("Start must fail when the library directory is missing")
	}
	if d.Running() {
		t.Fatal("failed start must not leave daemon running")
	}
}
