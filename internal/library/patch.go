package library

import (
	"strings"
	"time"

	"folio/internal/catalog"
)

// UserPatch describes a partial update to an item's user-owned fields. Nil
// pointer fields leave the current value alone; slices append or remove.
type UserPatch struct {
	Rating   *float64
	Favorite *bool

	AddTags    []string
	RemoveTags []string

	AddBookmark    *catalog.Bookmark
	ClearBookmarks bool

	AddNote *catalog.Note

	PlaybackPosition *time.Duration
	LastPlayedAt     *time.Time
}

func (p UserPatch) apply(meta *catalog.Metadata) {
	if p.Rating != nil {
		meta.UserRating = *p.Rating
	}
	if p.Favorite != nil {
		meta.Favorite = *p.Favorite
	}
	if len(p.AddTags) > 0 || len(p.RemoveTags) > 0 {
		meta.UserTags = reviseTags(meta.UserTags, p.AddTags, p.RemoveTags)
	}
	if p.ClearBookmarks {
		meta.Bookmarks = nil
	}
	if p.AddBookmark != nil {
		bookmark := *p.AddBookmark
		if bookmark.CreatedAt.IsZero() {
			bookmark.CreatedAt = time.Now()
		}
		meta.Bookmarks = append(meta.Bookmarks, bookmark)
	}
	if p.AddNote != nil {
		note := *p.AddNote
		if note.CreatedAt.IsZero() {
			note.CreatedAt = time.Now()
		}
		meta.Notes = append(meta.Notes, note)
	}
	if p.PlaybackPosition != nil {
		meta.PlaybackPosition = *p.PlaybackPosition
	}
	if p.LastPlayedAt != nil {
		meta.LastPlayedAt = *p.LastPlayedAt
	}
}

// reviseTags removes then adds, deduplicating case-insensitively while
// preserving first-seen order and original casing.
func reviseTags(current, add, remove []string) []string {
	dropped := make(map[string]struct{}, len(remove))
	for _, tag := range remove {
		dropped[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	seen := make(map[string]struct{}, len(current)+len(add))
	result := make([]string, 0, len(current)+len(add))
	for _, tag := range current {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" {
			continue
		}
		if _, gone := dropped[key]; gone {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	for _, tag := range add {
		trimmed := strings.TrimSpace(tag)
		key := strings.ToLower(trimmed)
		if key == "" {
			continue
		}
		if _, gone := dropped[key]; gone {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
