package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"folio/internal/api"
	"folio/internal/config"
	"folio/internal/library"
	"folio/internal/logging"
	"folio/internal/logs"
	"folio/internal/notifications"
	"folio/internal/reconcile"
	"folio/internal/scan"
)

// Daemon coordinates the catalog services and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	library  *library.Store
	scanner  *scan.Scanner
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, lib *library.Store, scanner *scan.Scanner, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || lib == nil || logger == nil {
		return nil, errors.New("daemon requires config, library, and logger")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		library:  lib,
		scanner:  scanner,
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, runs the initial library scan, and
// launches filesystem watching when configured.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another foliod instance is already running")
	}

	if err := checkLibraryAccess(d.cfg.Paths.LibraryDir); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.running.Store(true)

	if d.scanner != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.scanner.Walk(d.ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					d.logger.Error("initial scan failed", logging.Error(err))
					if nerr := d.notifier.NotifyError(d.ctx, err, "library scan"); nerr != nil {
						d.logger.Warn("notification failed", logging.Error(nerr))
					}
				}
				return
			}
			if err := d.notifier.NotifyLibraryScanned(d.ctx, d.library.Len()); err != nil {
				d.logger.Warn("notification failed", logging.Error(err))
			}
		}()

		if d.cfg.Scan.Watch {
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				if err := d.scanner.Watch(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
					d.logger.Error("library watch stopped", logging.Error(err))
				}
			}()
		}
	}

	d.logger.Info("foliod started",
		logging.String("lock", d.lockPath),
		logging.String("library", d.cfg.Paths.LibraryDir))
	return nil
}

// Stop halts background work and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("foliod stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Running reports whether background services are active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Status aggregates runtime information for API consumers.
func (d *Daemon) Status() api.DaemonStatus {
	snapshot := d.library.Snapshot()
	updating := d.library.Updating()
	return api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LibraryDir:   d.cfg.Paths.LibraryDir,
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		Stats:        api.StatsFor(snapshot, updating),
		Updating:     updating,
	}
}

// List returns the catalog snapshot as wire DTOs.
func (d *Daemon) List() []api.Item {
	return api.FromItems(d.library.Snapshot(), d.library.Updating())
}

// Get returns one item as a wire DTO.
func (d *Daemon) Get(id string) (api.Item, error) {
	item, err := d.library.GetByID(id)
	if err != nil {
		return api.Item{}, err
	}
	return api.FromItem(item, d.library.IsUpdating(id)), nil
}

// Reconcile runs a provider search for the item and commits the merged
// record, notifying on success.
func (d *Daemon) Reconcile(ctx context.Context, id, query string, mode reconcile.Mode, withCover bool) (api.Item, error) {
	item, err := d.library.Reconcile(ctx, id, query, mode, withCover)
	if err != nil {
		return api.Item{}, err
	}
	if nerr := d.notifier.NotifyReconcileCompleted(ctx, item.EffectiveTitle(), string(mode)); nerr != nil {
		d.logger.Warn("notification failed", logging.Error(nerr))
	}
	return api.FromItem(item, false), nil
}

// UpdateUserData applies a user-field patch to the item.
func (d *Daemon) UpdateUserData(ctx context.Context, id string, patch library.UserPatch) (api.Item, error) {
	item, err := d.library.UpdateUserData(ctx, id, patch)
	if err != nil {
		return api.Item{}, err
	}
	return api.FromItem(item, false), nil
}

// UpdateCover installs a new cover for the item, notifying on success.
func (d *Daemon) UpdateCover(ctx context.Context, id, source string) (api.Item, error) {
	item, err := d.library.UpdateCoverImage(ctx, id, source)
	if err != nil {
		return api.Item{}, err
	}
	if nerr := d.notifier.NotifyCoverUpdated(ctx, item.EffectiveTitle()); nerr != nil {
		d.logger.Warn("notification failed", logging.Error(nerr))
	}
	return api.FromItem(item, false), nil
}

// SearchCovers returns provider-ranked cover candidates for the item.
func (d *Daemon) SearchCovers(ctx context.Context, id string) ([]string, error) {
	return d.library.SearchCovers(ctx, id)
}

// TestNotification sends a test message through the notifier.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if !d.notifier.Enabled() {
		return false, "no ntfy topic configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, err.Error(), err
	}
	return true, "notification sent", nil
}

// LogPath returns the daemon log file location.
func (d *Daemon) LogPath() string {
	return d.cfg.LogFilePath()
}

// TailLog reads daemon log lines. A negative offset returns the last limit
// lines; otherwise reading resumes at offset.
func (d *Daemon) TailLog(offset int64, limit int) (logs.Chunk, error) {
	if offset < 0 {
		return logs.Last(d.cfg.LogFilePath(), limit)
	}
	return logs.ReadFrom(d.cfg.LogFilePath(), offset)
}

func checkLibraryAccess(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("library directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("library directory %s: not a directory", dir)
	}
	if err := unix.Access(dir, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("library directory %s: insufficient permissions: %w", dir, err)
	}
	return nil
}
