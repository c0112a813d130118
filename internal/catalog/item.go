package catalog

import (
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item represents one tracked audiobook file.
//
// ID is the absolute filesystem path and is stable, unique, and immutable for
// the item's lifetime. Metadata and FileMetadata are replaced, never mutated,
// by library commits; treat an Item value handed out by the store as frozen.
type Item struct {
	ID          string
	DisplayName string
	SizeBytes   int64
	ModTime     time.Time

	// Metadata holds the provider- or user-sourced record and wins over
	// FileMetadata when both exist.
	Metadata *Metadata

	// FileMetadata is extracted from embedded file tags.
	FileMetadata *Metadata
}

// Merged returns the effective metadata view: Metadata when present,
// otherwise FileMetadata. The returned pointer must not be mutated.
func (i *Item) Merged() *Metadata {
	if i == nil {
		return nil
	}
	if i.Metadata != nil {
		return i.Metadata
	}
	return i.FileMetadata
}

// EffectiveTitle returns the best available title for presentation.
func (i *Item) EffectiveTitle() string {
	if meta := i.Merged(); meta != nil && strings.TrimSpace(meta.Title) != "" {
		return meta.Title
	}
	return i.DisplayName
}

// Clone returns a shallow copy of the item with the same metadata pointers.
// Commits use this to swap in a new record while keeping filesystem fields.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

var displayCaser = cases.Title(language.English)

// DisplayNameFromPath derives a human-friendly name from a file path:
// the base name without extension, separators normalized, title-cased.
func DisplayNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return filepath.Base(path)
	}
	return displayCaser.String(base)
}
