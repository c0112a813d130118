package ipc

import "folio/internal/api"

// Item mirrors the API DTO for IPC callers.
type Item = api.Item

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/catalog status information.
type StatusResponse struct {
	Status api.DaemonStatus `json:"status"`
}

// ListRequest filters the catalog listing.
type ListRequest struct {
	FavoritesOnly bool   `json:"favoritesOnly"`
	Tag           string `json:"tag,omitempty"`
}

// ListResponse contains catalog entries.
type ListResponse struct {
	Items []Item `json:"items"`
}

// DescribeRequest fetches a single item by id.
type DescribeRequest struct {
	ID string `json:"id"`
}

// DescribeResponse contains a single catalog entry.
type DescribeResponse struct {
	Item Item `json:"item"`
}

// ReconcileRequest triggers metadata reconciliation for an item.
type ReconcileRequest struct {
	ID        string `json:"id"`
	Query     string `json:"query,omitempty"`
	Mode      string `json:"mode"`
	WithCover bool   `json:"withCover"`
}

// ReconcileResponse returns the committed record.
type ReconcileResponse struct {
	Item Item `json:"item"`
}

// UserUpdateRequest patches an item's user-owned fields. Nil pointers leave
// the current value alone.
type UserUpdateRequest struct {
	ID            string   `json:"id"`
	Rating        *float64 `json:"rating,omitempty"`
	Favorite      *bool    `json:"favorite,omitempty"`
	AddTags       []string `json:"addTags,omitempty"`
	RemoveTags    []string `json:"removeTags,omitempty"`
	NoteText      string   `json:"noteText,omitempty"`
	BookmarkSec   *int64   `json:"bookmarkSec,omitempty"`
	BookmarkLabel string   `json:"bookmarkLabel,omitempty"`
}

// UserUpdateResponse returns the committed record.
type UserUpdateResponse struct {
	Item Item `json:"item"`
}

// CoverSearchRequest fetches provider-ranked cover candidates.
type CoverSearchRequest struct {
	ID string `json:"id"`
}

// CoverSearchResponse lists candidate cover URLs.
type CoverSearchResponse struct {
	URLs []string `json:"urls"`
}

// CoverSetRequest installs a new cover from a URL or local path.
type CoverSetRequest struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// CoverSetResponse returns the committed record.
type CoverSetResponse struct {
	Item Item `json:"item"`
}

// LogsRequest reads daemon log lines. A negative offset requests the last
// Limit lines; a non-negative offset resumes an earlier read.
type LogsRequest struct {
	Offset int64 `json:"offset"`
	Limit  int   `json:"limit,omitempty"`
}

// LogsResponse carries log lines and the offset for the next read.
type LogsResponse struct {
	Lines  []string `json:"lines,omitempty"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
