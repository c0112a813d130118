package api

import (
	"time"

	"folio/internal/catalog"
)

// FromItem converts a catalog item into its wire representation. The
// effective metadata view is flattened into the DTO; TaggedOnly marks items
// whose only record came from embedded file tags.
func FromItem(item *catalog.Item, updating bool) Item {
	if item == nil {
		return Item{}
	}
	dto := Item{
		ID:          item.ID,
		DisplayName: item.DisplayName,
		SizeBytes:   item.SizeBytes,
		Updating:    updating,
		TaggedOnly:  item.Metadata == nil && item.FileMetadata != nil,
	}
	if !item.ModTime.IsZero() {
		dto.ModTime = item.ModTime.Format(dateTimeFormat)
	}
	meta := item.Merged()
	if meta == nil {
		return dto
	}
	dto.Title = meta.Title
	dto.Authors = append([]string(nil), meta.Authors...)
	dto.Series = meta.Series
	dto.SeriesPosition = meta.SeriesPosition
	dto.Description = meta.Description
	dto.Categories = append([]string(nil), meta.Categories...)
	dto.Publisher = meta.Publisher
	dto.PublishedDate = meta.PublishedDate
	dto.Language = meta.Language
	dto.ThumbnailURL = meta.ThumbnailURL
	dto.AverageRating = meta.AverageRating
	dto.RatingsCount = meta.RatingsCount
	dto.Provider = meta.Provider
	dto.DurationSec = int64(meta.Duration / time.Second)
	dto.FileFormat = meta.FileFormat
	dto.UserRating = meta.UserRating
	dto.Favorite = meta.Favorite
	dto.UserTags = append([]string(nil), meta.UserTags...)
	dto.PlaybackSec = int64(meta.PlaybackPosition / time.Second)
	if !meta.LastPlayedAt.IsZero() {
		dto.LastPlayedAt = meta.LastPlayedAt.Format(dateTimeFormat)
	}
	for _, bookmark := range meta.Bookmarks {
		wire := Bookmark{
			PositionSec: int64(bookmark.Position / time.Second),
			Label:       bookmark.Label,
		}
		if !bookmark.CreatedAt.IsZero() {
			wire.CreatedAt = bookmark.CreatedAt.Format(dateTimeFormat)
		}
		dto.Bookmarks = append(dto.Bookmarks, wire)
	}
	for _, note := range meta.Notes {
		wire := Note{Text: note.Text}
		if !note.CreatedAt.IsZero() {
			wire.CreatedAt = note.CreatedAt.Format(dateTimeFormat)
		}
		dto.Notes = append(dto.Notes, wire)
	}
	return dto
}

// FromItems converts a catalog snapshot, marking in-flight entries.
func FromItems(items []*catalog.Item, updating []string) []Item {
	inFlight := make(map[string]struct{}, len(updating))
	for _, id := range updating {
		inFlight[id] = struct{}{}
	}
	dtos := make([]Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		_, busy := inFlight[item.ID]
		dtos = append(dtos, FromItem(item, busy))
	}
	return dtos
}

// StatsFor computes aggregate counts over a catalog snapshot.
func StatsFor(items []*catalog.Item, updating []string) LibraryStats {
	stats := LibraryStats{Items: len(items), Updating: len(updating)}
	for _, item := range items {
		meta := item.Merged()
		if meta == nil {
			continue
		}
		if meta.Favorite {
			stats.Favorites++
		}
		if item.Metadata != nil && item.Metadata.Provider != "" {
			stats.Reconciled++
		}
	}
	return stats
}
