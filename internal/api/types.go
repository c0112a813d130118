package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Item describes a catalog entry in a transport-friendly format.
type Item struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"displayName"`
	SizeBytes      int64      `json:"sizeBytes"`
	ModTime        string     `json:"modTime,omitempty"`
	Updating       bool       `json:"updating"`
	Title          string     `json:"title,omitempty"`
	Authors        []string   `json:"authors,omitempty"`
	Series         string     `json:"series,omitempty"`
	SeriesPosition float64    `json:"seriesPosition,omitempty"`
	Description    string     `json:"description,omitempty"`
	Categories     []string   `json:"categories,omitempty"`
	Publisher      string     `json:"publisher,omitempty"`
	PublishedDate  string     `json:"publishedDate,omitempty"`
	Language       string     `json:"language,omitempty"`
	ThumbnailURL   string     `json:"thumbnailUrl,omitempty"`
	AverageRating  float64    `json:"averageRating,omitempty"`
	RatingsCount   int        `json:"ratingsCount,omitempty"`
	Provider       string     `json:"provider,omitempty"`
	DurationSec    int64      `json:"durationSec,omitempty"`
	FileFormat     string     `json:"fileFormat,omitempty"`
	UserRating     float64    `json:"userRating,omitempty"`
	Favorite       bool       `json:"favorite"`
	UserTags       []string   `json:"userTags,omitempty"`
	Bookmarks      []Bookmark `json:"bookmarks,omitempty"`
	Notes          []Note     `json:"notes,omitempty"`
	PlaybackSec    int64      `json:"playbackSec,omitempty"`
	LastPlayedAt   string     `json:"lastPlayedAt,omitempty"`
	TaggedOnly     bool       `json:"taggedOnly"`
}

// Bookmark is the wire form of a playback bookmark.
type Bookmark struct {
	PositionSec int64  `json:"positionSec"`
	Label       string `json:"label,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Note is the wire form of a free-form annotation.
type Note struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// LibraryStats aggregates catalog counts for status displays.
type LibraryStats struct {
	Items      int `json:"items"`
	Favorites  int `json:"favorites"`
	Reconciled int `json:"reconciled"`
	Updating   int `json:"updating"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool         `json:"running"`
	PID          int          `json:"pid"`
	LibraryDir   string       `json:"libraryDir"`
	DatabasePath string       `json:"databasePath"`
	LockFilePath string       `json:"lockFilePath"`
	Stats        LibraryStats `json:"stats"`
	Updating     []string     `json:"updating,omitempty"`
}
