package catalog_test

import (
	"testing"
	"time"

	"folio/internal/catalog"
)

func sampleMetadata() *catalog.Metadata {
	return &catalog.Metadata{
		Title:            "Dune",
		Authors:          []string{"Frank Herbert"},
		Series:           "Dune",
		SeriesPosition:   1,
		Description:      "Desert planet",
		Categories:       []string{"Science Fiction"},
		Provider:         "openlibrary",
		UserRating:       4.5,
		Favorite:         true,
		UserTags:         []string{"epic"},
		Bookmarks:        []catalog.Bookmark{{Position: 5 * time.Minute, Label: "ch1"}},
		PlaybackPosition: 42 * time.Second,
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleMetadata()
	cp := orig.Clone()

	if cp == orig {
		t.Fatal("expected a distinct instance")
	}
	cp.Authors[0] = "Someone Else"
	cp.UserTags[0] = "changed"
	cp.Bookmarks[0].Label = "changed"

	if orig.Authors[0] != "Frank Herbert" {
		t.Fatalf("clone aliased authors: %v", orig.Authors)
	}
	if orig.UserTags[0] != "epic" {
		t.Fatalf("clone aliased user tags: %v", orig.UserTags)
	}
	if orig.Bookmarks[0].Label != "ch1" {
		t.Fatalf("clone aliased bookmarks: %v", orig.Bookmarks)
	}
}

func TestCloneNil(t *testing.T) {
	var m *catalog.Metadata
	if m.Clone() != nil {
		t.Fatal("expected nil clone of nil metadata")
	}
}

func TestCopyUserFieldsFrom(t *testing.T) {
	current := sampleMetadata()
	candidate := &catalog.Metadata{
		Title:       "Dune Messiah",
		Description: "Sequel",
	}

	candidate.CopyUserFieldsFrom(current)

	if candidate.Title != "Dune Messiah" {
		t.Fatalf("remote field clobbered: %q", candidate.Title)
	}
	if !candidate.Favorite || candidate.UserRating != 4.5 {
		t.Fatalf("user fields not copied: %+v", candidate)
	}
	if len(candidate.Bookmarks) != 1 || candidate.Bookmarks[0].Label != "ch1" {
		t.Fatalf("bookmarks not copied: %+v", candidate.Bookmarks)
	}

	// The copy must be independent of the source.
	candidate.UserTags[0] = "mutated"
	if current.UserTags[0] != "epic" {
		t.Fatal("user tag copy aliased source slice")
	}
}

func TestDisplayNameFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/books/frank_herbert/dune.m4b", "Dune"},
		{"/books/the.great.gatsby.mp3", "The Great Gatsby"},
		{"/books/Already Nice.flac", "Already Nice"},
	}
	for _, tc := range cases {
		if got := catalog.DisplayNameFromPath(tc.path); got != tc.want {
			t.Errorf("DisplayNameFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestMergedPrefersMetadata(t *testing.T) {
	fileMeta := &catalog.Metadata{Title: "From Tags"}
	item := &catalog.Item{ID: "/books/a.m4b", FileMetadata: fileMeta}

	if item.Merged() != fileMeta {
		t.Fatal("expected file metadata when no provider metadata exists")
	}

	meta := &catalog.Metadata{Title: "From Provider"}
	item.Metadata = meta
	if item.Merged() != meta {
		t.Fatal("expected provider metadata to win")
	}
}
