package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"folio/internal/catalog"
	"folio/internal/logging"
	"folio/internal/tags"
)

// Catalog is the slice of the library store the scanner drives.
type Catalog interface {
	Add(ctx context.Context, item *catalog.Item) error
	Remove(ctx context.Context, id string) error
}

// Scanner feeds the catalog from the filesystem.
type Scanner struct {
	catalog    Catalog
	root       string
	extensions map[string]struct{}
	debounce   time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Config holds scanner construction parameters.
type Config struct {
	Catalog    Catalog
	Root       string
	Extensions []string
	Debounce   time.Duration
	Logger     *slog.Logger
}

// New creates a scanner for the configured library root.
func New(cfg Config) (*Scanner, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("scan: catalog required")
	}
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, fmt.Errorf("scan: root directory required")
	}
	extMap := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[ext] = struct{}{}
	}
	if len(extMap) == 0 {
		return nil, fmt.Errorf("scan: no recognized extensions configured")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		catalog:    cfg.Catalog,
		root:       root,
		extensions: extMap,
		debounce:   debounce,
		logger:     logging.NewComponentLogger(logger, "scan"),
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Walk performs the initial recursive discovery pass, adding every
// recognized file to the catalog. Unreadable entries are logged and skipped.
func (s *Scanner) Walk(ctx context.Context) error {
	count := 0
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("walk entry skipped", logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return fs.SkipDir
			}
			return nil
		}
		if !s.recognized(path) {
			return nil
		}
		if err := s.addPath(ctx, path); err != nil {
			s.logger.Warn("file skipped", logging.String("path", path), logging.Error(err))
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", s.root, err)
	}
	s.logger.Info("initial scan complete",
		logging.String("root", s.root), logging.Int("files", count))
	return nil
}

// Watch blocks watching the library tree until ctx is cancelled. Create and
// write events are debounced per path before the file is added; remove and
// rename events drop the path from the catalog.
func (s *Scanner) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("scan watch: %w", err)
	}
	defer watcher.Close()

	if err := s.watchTree(watcher); err != nil {
		return err
	}
	s.logger.Info("watching library", logging.String("root", s.root))

	for {
		select {
		case <-ctx.Done():
			s.flushPending()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", logging.Error(err))
		}
	}
}

func (s *Scanner) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	path := event.Name

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := watcher.Add(path); err != nil {
				s.logger.Warn("watch add failed", logging.String("path", path), logging.Error(err))
			}
			return
		}
	}

	if !s.recognized(path) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		s.cancelPending(path)
		if err := s.catalog.Remove(ctx, path); err != nil {
			s.logger.Warn("remove failed", logging.String("path", path), logging.Error(err))
		}
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		s.schedule(ctx, path)
	}
}

// schedule (re)starts the debounce timer for path. Rapid write bursts while
// a file is still being copied collapse into a single add.
func (s *Scanner) schedule(ctx context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.pending[path]; ok {
		timer.Stop()
	}
	s.pending[path] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.pending, path)
		s.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := s.addPath(ctx, path); err != nil {
			s.logger.Warn("add failed", logging.String("path", path), logging.Error(err))
		}
	})
}

func (s *Scanner) cancelPending(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.pending[path]; ok {
		timer.Stop()
		delete(s.pending, path)
	}
}

func (s *Scanner) flushPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, timer := range s.pending {
		timer.Stop()
		delete(s.pending, path)
	}
}

func (s *Scanner) addPath(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	fileMeta, err := tags.Extract(path)
	if err != nil {
		// Tag trouble is not fatal; track the file without a record.
		s.logger.Debug("tag extraction failed", logging.String("path", path), logging.Error(err))
	}
	return s.catalog.Add(ctx, &catalog.Item{
		ID:           path,
		SizeBytes:    info.Size(),
		ModTime:      info.ModTime(),
		FileMetadata: fileMeta,
	})
}

func (s *Scanner) watchTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.root {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (s *Scanner) recognized(path string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
