package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"

	"folio/internal/catalog"
)

// Extract reads the embedded tags of the audio file at path and maps them
// onto a metadata record. Audiobook rips commonly carry the narrator or
// series in the album field, so the album maps to Series and the track
// number to SeriesPosition.
//
// A file without readable tags returns (nil, nil): untagged media is normal,
// not an error. Only failures opening the file surface as errors.
func Extract(path string) (*catalog.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, nil
	}

	meta := &catalog.Metadata{
		Title:      strings.TrimSpace(m.Title()),
		Series:     strings.TrimSpace(m.Album()),
		FileFormat: string(m.FileType()),
	}
	if artist := strings.TrimSpace(m.Artist()); artist != "" {
		meta.Authors = []string{artist}
	} else if albumArtist := strings.TrimSpace(m.AlbumArtist()); albumArtist != "" {
		meta.Authors = []string{albumArtist}
	}
	if genre := strings.TrimSpace(m.Genre()); genre != "" {
		meta.Categories = []string{genre}
	}
	if year := m.Year(); year > 0 {
		meta.PublishedDate = fmt.Sprintf("%d", year)
	}
	if track, _ := m.Track(); track > 0 {
		meta.SeriesPosition = float64(track)
	}
	if comment := strings.TrimSpace(m.Comment()); comment != "" {
		meta.Description = comment
	}

	if !meta.HasRemoteIdentity() && meta.Series == "" {
		return nil, nil
	}
	return meta, nil
}
