package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"folio/internal/ipc"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var favoritesOnly bool
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.List(ipc.ListRequest{FavoritesOnly: favoritesOnly, Tag: tag})
				if err != nil {
					return err
				}
				if len(resp.Items) == 0 {
					fmt.Println("No items in the catalog.")
					return nil
				}
				rows := make([][]string, 0, len(resp.Items))
				for _, item := range resp.Items {
					rows = append(rows, []string{
						item.ID,
						itemListTitle(item),
						primaryAuthor(item),
						formatListDuration(item.DurationSec),
						humanize.Bytes(uint64(item.SizeBytes)),
						itemMarkers(item),
					})
				}
				fmt.Println(renderTable(
					[]string{"ID", "Title", "Author", "Duration", "Size", ""},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				fmt.Printf("%d item(s)\n", len(resp.Items))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only show favorited items")
	cmd.Flags().StringVar(&tag, "tag", "", "Only show items carrying the given tag")
	return cmd
}

func itemListTitle(item ipc.Item) string {
	if item.Title != "" {
		return item.Title
	}
	return item.DisplayName
}

func primaryAuthor(item ipc.Item) string {
	if len(item.Authors) > 0 {
		return item.Authors[0]
	}
	return ""
}

func formatListDuration(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	d := time.Duration(seconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func itemMarkers(item ipc.Item) string {
	markers := ""
	if item.Favorite {
		markers += "*"
	}
	if item.Updating {
		markers += "~"
	}
	return markers
}
