package catalog

import (
	"strings"
	"time"
)

// Bookmark marks a playback position the user wants to return to.
type Bookmark struct {
	Position  time.Duration `json:"position"`
	Label     string        `json:"label,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Note is a free-form annotation attached to a book.
type Note struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Metadata carries all descriptive and user data for one audiobook.
//
// Remote-sourced fields come from an external provider or embedded file tags
// and may be overwritten by reconciliation. User-owned fields are set only by
// direct user action and survive every reconciliation regardless of mode.
type Metadata struct {
	// Remote-sourced fields.
	Title          string        `json:"title,omitempty"`
	Authors        []string      `json:"authors,omitempty"`
	Series         string        `json:"series,omitempty"`
	SeriesPosition float64       `json:"series_position,omitempty"`
	Description    string        `json:"description,omitempty"`
	Categories     []string      `json:"categories,omitempty"`
	Publisher      string        `json:"publisher,omitempty"`
	PublishedDate  string        `json:"published_date,omitempty"`
	Language       string        `json:"language,omitempty"`
	ThumbnailURL   string        `json:"thumbnail_url,omitempty"`
	AverageRating  float64       `json:"average_rating,omitempty"`
	RatingsCount   int           `json:"ratings_count,omitempty"`
	Provider       string        `json:"provider,omitempty"`
	Duration       time.Duration `json:"duration,omitempty"`
	FileFormat     string        `json:"file_format,omitempty"`

	// User-owned fields.
	UserRating       float64       `json:"user_rating,omitempty"`
	Favorite         bool          `json:"favorite,omitempty"`
	UserTags         []string      `json:"user_tags,omitempty"`
	Bookmarks        []Bookmark    `json:"bookmarks,omitempty"`
	Notes            []Note        `json:"notes,omitempty"`
	PlaybackPosition time.Duration `json:"playback_position,omitempty"`
	LastPlayedAt     time.Time     `json:"last_played_at,omitempty"`
}

// Clone returns a deep copy. The copy shares no slices with the receiver, so
// publishing it as a new record cannot alias a value already handed out.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Authors = cloneStrings(m.Authors)
	cp.Categories = cloneStrings(m.Categories)
	cp.UserTags = cloneStrings(m.UserTags)
	if m.Bookmarks != nil {
		cp.Bookmarks = make([]Bookmark, len(m.Bookmarks))
		copy(cp.Bookmarks, m.Bookmarks)
	}
	if m.Notes != nil {
		cp.Notes = make([]Note, len(m.Notes))
		copy(cp.Notes, m.Notes)
	}
	return &cp
}

// CopyUserFieldsFrom overwrites the receiver's user-owned fields with deep
// copies of src's. Remote-sourced fields are left untouched.
func (m *Metadata) CopyUserFieldsFrom(src *Metadata) {
	if m == nil || src == nil {
		return
	}
	m.UserRating = src.UserRating
	m.Favorite = src.Favorite
	m.UserTags = cloneStrings(src.UserTags)
	if src.Bookmarks != nil {
		m.Bookmarks = make([]Bookmark, len(src.Bookmarks))
		copy(m.Bookmarks, src.Bookmarks)
	} else {
		m.Bookmarks = nil
	}
	if src.Notes != nil {
		m.Notes = make([]Note, len(src.Notes))
		copy(m.Notes, src.Notes)
	} else {
		m.Notes = nil
	}
	m.PlaybackPosition = src.PlaybackPosition
	m.LastPlayedAt = src.LastPlayedAt
}

// PrimaryAuthor returns the first author, or an empty string.
func (m *Metadata) PrimaryAuthor() string {
	if m == nil || len(m.Authors) == 0 {
		return ""
	}
	return m.Authors[0]
}

// HasRemoteIdentity reports whether the record carries enough remote data to
// be worth persisting on its own (anything beyond user bookkeeping).
func (m *Metadata) HasRemoteIdentity() bool {
	if m == nil {
		return false
	}
	return strings.TrimSpace(m.Title) != "" || len(m.Authors) > 0 || m.Description != ""
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return cp
}
