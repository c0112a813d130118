package reconcile

import (
	"fmt"
	"strings"

	"folio/internal/catalog"
)

// Mode selects the merge policy applied during reconciliation.
type Mode string

const (
	// ModeEnhance fills gaps in the current record: a remote-sourced field
	// is taken from the candidate only when the current value is empty.
	ModeEnhance Mode = "enhance"

	// ModeUpdate overwrites remote-sourced fields with the candidate's
	// values, falling back to the current value for fields the candidate
	// leaves empty. Used for a newer edition of the same work.
	ModeUpdate Mode = "update"

	// ModeReplace behaves like ModeUpdate for remote-sourced fields but
	// marks the candidate as a different work entirely. User-owned data
	// stays attached to the catalog slot even across a replace.
	ModeReplace Mode = "replace"
)

// ParseMode converts a string into a known Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeEnhance:
		return ModeEnhance, nil
	case ModeUpdate:
		return ModeUpdate, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown reconcile mode %q", value)
	}
}

// Merge produces a fresh record from current and candidate under the given
// mode. Neither input is mutated; the result shares no slices with either.
//
// withCover controls cover handling in every mode: when true the result's
// thumbnail follows the candidate regardless of the current value, when
// false the current thumbnail is retained.
func Merge(current, candidate *catalog.Metadata, mode Mode, withCover bool) *catalog.Metadata {
	if current == nil {
		current = &catalog.Metadata{}
	}
	if candidate == nil {
		candidate = &catalog.Metadata{}
	}

	var result *catalog.Metadata
	switch mode {
	case ModeEnhance:
		result = mergeEnhance(current, candidate)
	default:
		// Update and replace share field-overwrite behavior.
		result = mergeOverwrite(current, candidate)
	}

	if withCover {
		result.ThumbnailURL = candidate.ThumbnailURL
	} else {
		result.ThumbnailURL = current.ThumbnailURL
	}

	result.CopyUserFieldsFrom(current)
	return result
}

// mergeEnhance keeps every non-empty current field and fills gaps from the
// candidate.
func mergeEnhance(current, candidate *catalog.Metadata) *catalog.Metadata {
	result := current.Clone()
	result.Title = pickString(current.Title, candidate.Title)
	result.Authors = pickStrings(current.Authors, candidate.Authors)
	result.Series = pickString(current.Series, candidate.Series)
	result.SeriesPosition = pickFloat(current.SeriesPosition, candidate.SeriesPosition)
	result.Description = pickString(current.Description, candidate.Description)
	result.Categories = pickStrings(current.Categories, candidate.Categories)
	result.Publisher = pickString(current.Publisher, candidate.Publisher)
	result.PublishedDate = pickString(current.PublishedDate, candidate.PublishedDate)
	result.Language = pickString(current.Language, candidate.Language)
	result.AverageRating = pickFloat(current.AverageRating, candidate.AverageRating)
	if result.RatingsCount == 0 {
		result.RatingsCount = candidate.RatingsCount
	}
	result.Provider = pickString(current.Provider, candidate.Provider)
	if result.Duration == 0 {
		result.Duration = candidate.Duration
	}
	result.FileFormat = pickString(current.FileFormat, candidate.FileFormat)
	return result
}

// mergeOverwrite takes every non-empty candidate field and falls back to the
// current value for fields the candidate leaves empty.
func mergeOverwrite(current, candidate *catalog.Metadata) *catalog.Metadata {
	result := candidate.Clone()
	result.Title = pickString(candidate.Title, current.Title)
	result.Authors = pickStrings(candidate.Authors, current.Authors)
	result.Series = pickString(candidate.Series, current.Series)
	result.SeriesPosition = pickFloat(candidate.SeriesPosition, current.SeriesPosition)
	result.Description = pickString(candidate.Description, current.Description)
	result.Categories = pickStrings(candidate.Categories, current.Categories)
	result.Publisher = pickString(candidate.Publisher, current.Publisher)
	result.PublishedDate = pickString(candidate.PublishedDate, current.PublishedDate)
	result.Language = pickString(candidate.Language, current.Language)
	result.AverageRating = pickFloat(candidate.AverageRating, current.AverageRating)
	if result.RatingsCount == 0 {
		result.RatingsCount = current.RatingsCount
	}
	result.Provider = pickString(candidate.Provider, current.Provider)
	if result.Duration == 0 {
		result.Duration = current.Duration
	}
	result.FileFormat = pickString(candidate.FileFormat, current.FileFormat)
	return result
}

func pickString(first, second string) string {
	if strings.TrimSpace(first) != "" {
		return first
	}
	return second
}

func pickStrings(first, second []string) []string {
	if len(first) > 0 {
		return cloneValues(first)
	}
	return cloneValues(second)
}

func pickFloat(first, second float64) float64 {
	if first != 0 {
		return first
	}
	return second
}

func cloneValues(values []string) []string {
	if values == nil {
		return nil
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return cp
}
