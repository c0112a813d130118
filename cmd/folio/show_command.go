package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"folio/internal/ipc"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show full details for a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Describe(args[0])
				if err != nil {
					return err
				}
				printItemDetail(resp.Item)
				return nil
			})
		},
	}
}

func printItemDetail(item ipc.Item) {
	fmt.Printf("%s\n", itemListTitle(item))
	printDetail("ID", item.ID)
	printDetail("File", item.DisplayName)
	printDetail("Size", humanize.Bytes(uint64(item.SizeBytes)))
	printDetail("Modified", item.ModTime)
	if item.Updating {
		printDetail("Status", "updating")
	}

	printDetail("Authors", strings.Join(item.Authors, ", "))
	if item.Series != "" {
		series := item.Series
		if item.SeriesPosition > 0 {
			series = fmt.Sprintf("%s #%g", series, item.SeriesPosition)
		}
		printDetail("Series", series)
	}
	printDetail("Publisher", item.Publisher)
	printDetail("Published", item.PublishedDate)
	printDetail("Language", item.Language)
	printDetail("Categories", strings.Join(item.Categories, ", "))
	printDetail("Format", item.FileFormat)
	printDetail("Duration", formatListDuration(item.DurationSec))
	printDetail("Provider", item.Provider)
	printDetail("Cover", item.ThumbnailURL)
	if item.AverageRating > 0 {
		printDetail("Rating", fmt.Sprintf("%.1f (%d ratings)", item.AverageRating, item.RatingsCount))
	}
	if item.Description != "" {
		fmt.Printf("\n%s\n", item.Description)
	}

	fmt.Println()
	if item.UserRating > 0 {
		printDetail("My rating", fmt.Sprintf("%.1f", item.UserRating))
	}
	if item.Favorite {
		printDetail("Favorite", "yes")
	}
	printDetail("Tags", strings.Join(item.UserTags, ", "))
	if item.PlaybackSec > 0 {
		printDetail("Position", formatListDuration(item.PlaybackSec))
	}
	printDetail("Last played", item.LastPlayedAt)
	for _, bookmark := range item.Bookmarks {
		label := bookmark.Label
		if label == "" {
			label = "(unnamed)"
		}
		fmt.Printf("  bookmark %-12s %s\n", formatListDuration(bookmark.PositionSec), label)
	}
	for _, note := range item.Notes {
		fmt.Printf("  note: %s\n", note.Text)
	}
}

func printDetail(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-12s %s\n", label+":", value)
}
