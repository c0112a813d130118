package covers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"folio/internal/logging"
)

// minFreeBytes is the free-space floor below which installs are refused.
const minFreeBytes = 64 << 20

// FileStore keeps cover images under a single directory.
type FileStore struct {
	dir        string
	httpClient *http.Client
	statfs     func(path string) (free uint64, err error)
	logger     *slog.Logger
}

// Option adjusts FileStore construction.
type Option func(*FileStore)

// WithHTTPClient overrides the client used for URL fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(s *FileStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewFileStore creates a cover store rooted at dir, creating it if needed.
func NewFileStore(dir string, logger *slog.Logger, opts ...Option) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("covers: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("covers: create %s: %w", dir, err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	store := &FileStore{
		dir:        dir,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		statfs:     realStatfs,
		logger:     logging.NewComponentLogger(logger, "covers"),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Install transfers the cover at source into the store and returns the
// stored path. Source is either an http(s) URL or a local file path. The
// bytes land in a temp file first and are renamed into place, so a partial
// transfer never becomes visible.
func (s *FileStore) Install(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("covers: source required")
	}
	if err := s.checkFreeSpace(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".cover-*")
	if err != nil {
		return "", fmt.Errorf("covers: temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if isHTTP(source) {
		err = s.fetch(ctx, source, tmp)
	} else {
		err = copyLocal(source, tmp)
	}
	if err != nil {
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("covers: close temp: %w", err)
	}

	final := filepath.Join(s.dir, fmt.Sprintf("cover-%s%s", uuid.NewString(), extensionOf(source)))
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("covers: store %s: %w", final, err)
	}
	s.logger.Debug("cover stored", logging.String("path", final), logging.String("source", source))
	return final, nil
}

// Remove deletes a previously stored cover. Paths outside the store
// directory are ignored so a remote thumbnail URL can be passed safely.
func (s *FileStore) Remove(path string) error {
	if path == "" || isHTTP(path) {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return nil
	}
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return nil
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("covers: remove %s: %w", abs, err)
	}
	return nil
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) fetch(ctx context.Context, source string, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("covers: build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("covers: fetch %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("covers: fetch %s: unexpected status %d", source, resp.StatusCode)
	}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("covers: download %s: %w", source, err)
	}
	return nil
}

func (s *FileStore) checkFreeSpace() error {
	free, err := s.statfs(s.dir)
	if err != nil {
		// Statfs failing is not a reason to refuse the install.
		s.logger.Debug("free space check failed", logging.Error(err))
		return nil
	}
	if free < minFreeBytes {
		return fmt.Errorf("covers: insufficient free space in %s (%d bytes free)", s.dir, free)
	}
	return nil
}

func copyLocal(source string, dst io.Writer) error {
	f, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("covers: open %s: %w", source, err)
	}
	defer f.Close()
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("covers: copy %s: %w", source, err)
	}
	return nil
}

func isHTTP(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// extensionOf picks a file extension from the source, defaulting to .jpg.
func extensionOf(source string) string {
	candidate := source
	if isHTTP(source) {
		if parsed, err := url.Parse(source); err == nil {
			candidate = parsed.Path
		}
	}
	switch ext := strings.ToLower(filepath.Ext(candidate)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}

func realStatfs(path string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
