package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"folio/internal/catalog"
)

// Store manages metadata persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies
// migrations. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Save durably writes the metadata record for id, replacing any previous
// row. It must succeed before the in-memory catalog commits the record.
func (s *Store) Save(ctx context.Context, id string, meta *catalog.Metadata) error {
	if id == "" {
		return errors.New("save: empty item id")
	}
	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (id, metadata_json, created_at, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET metadata_json = excluded.metadata_json, updated_at = excluded.updated_at`,
		id, string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("save item %s: %w", id, err)
	}
	return nil
}

// Load returns the stored metadata record for id, or nil when none exists.
func (s *Store) Load(ctx context.Context, id string) (*catalog.Metadata, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT metadata_json FROM items WHERE id = ?", id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", id, err)
	}
	return decodeMetadata(id, payload)
}

// LoadAll returns every stored metadata record keyed by item id. Used at
// startup to hydrate the in-memory catalog.
func (s *Store) LoadAll(ctx context.Context) (map[string]*catalog.Metadata, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, metadata_json FROM items")
	if err != nil {
		return nil, fmt.Errorf("load all items: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*catalog.Metadata)
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		meta, err := decodeMetadata(id, payload)
		if err != nil {
			return nil, err
		}
		records[id] = meta
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return records, nil
}

// Delete removes the stored record for id. Deleting an absent id is not an
// error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

func decodeMetadata(id, payload string) (*catalog.Metadata, error) {
	meta := new(catalog.Metadata)
	if err := json.Unmarshal([]byte(payload), meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", id, err)
	}
	return meta, nil
}
