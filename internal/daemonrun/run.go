// Package daemonrun wires configuration, storage, provider, and IPC into a
// running foliod process.
package daemonrun

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"folio/internal/config"
	"folio/internal/covers"
	"folio/internal/daemon"
	"folio/internal/ipc"
	"folio/internal/library"
	"folio/internal/logging"
	"folio/internal/notifications"
	"folio/internal/persist"
	"folio/internal/providers/openlibrary"
	"folio/internal/reconcile"
	"folio/internal/scan"
	"folio/internal/tracker"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the foliod runtime loop and blocks until the process receives
// SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", cfg.LogFilePath()},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.DataDir, "foliod.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := persist.Open(cfg.DatabasePath())
	if err != nil {
		logger.Error("open catalog store", logging.Error(err))
		return err
	}
	defer store.Close()

	hydrated, err := store.LoadAll(signalCtx)
	if err != nil {
		logger.Error("load persisted metadata", logging.Error(err))
		return err
	}
	logger.Info("catalog hydrated", logging.Int("records", len(hydrated)))

	provider, err := openlibrary.New(
		cfg.Provider.BaseURL,
		cfg.Provider.CoverBaseURL,
		cfg.Provider.Language,
		openlibrary.WithMaxResults(cfg.Provider.MaxResults),
		openlibrary.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		}),
	)
	if err != nil {
		return fmt.Errorf("init metadata provider: %w", err)
	}

	coverStore, err := covers.NewFileStore(cfg.Paths.CoverDir, logger)
	if err != nil {
		return fmt.Errorf("init cover store: %w", err)
	}

	lib := library.NewStore(library.Options{
		Persister:  store,
		Reconciler: reconcile.NewEngine(provider, logger),
		Covers:     coverStore,
		Tracker:    tracker.New(),
		Logger:     logger,
		Hydrated:   hydrated,
	})

	scanner, err := scan.New(scan.Config{
		Catalog:    lib,
		Root:       cfg.Paths.LibraryDir,
		Extensions: cfg.Scan.Extensions,
		Debounce:   time.Duration(cfg.Scan.DebounceMs) * time.Millisecond,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("init scanner: %w", err)
	}

	notifier := notifications.NewService(cfg)

	d, err := daemon.New(cfg, lib, scanner, notifier, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.Paths.SocketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return err
	}

	<-signalCtx.Done()
	logger.Info("foliod shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
