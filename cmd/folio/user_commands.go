package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/ipc"
)

func newFavoriteCommand(ctx *commandContext) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark an item as a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			favorite := !clear
			return applyUserUpdate(ctx, ipc.UserUpdateRequest{ID: args[0], Favorite: &favorite}, func(item ipc.Item) {
				if item.Favorite {
					fmt.Printf("Favorited %s\n", itemListTitle(item))
				} else {
					fmt.Printf("Removed favorite from %s\n", itemListTitle(item))
				}
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "remove", false, "Clear the favorite flag instead of setting it")
	return cmd
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <rating>",
		Short: "Set a personal rating between 0 and 5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid rating %q: %w", args[1], err)
			}
			if rating < 0 || rating > 5 {
				return fmt.Errorf("rating %g out of range 0-5", rating)
			}
			return applyUserUpdate(ctx, ipc.UserUpdateRequest{ID: args[0], Rating: &rating}, func(item ipc.Item) {
				fmt.Printf("Rated %s %.1f\n", itemListTitle(item), item.UserRating)
			})
		},
	}
}

func newTagCommand(ctx *commandContext) *cobra.Command {
	var remove []string

	cmd := &cobra.Command{
		Use:   "tag <id> [tag...]",
		Short: "Add or remove personal tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			add := args[1:]
			if len(add) == 0 && len(remove) == 0 {
				return fmt.Errorf("nothing to do: pass tags to add or --remove")
			}
			return applyUserUpdate(ctx, ipc.UserUpdateRequest{ID: args[0], AddTags: add, RemoveTags: remove}, func(item ipc.Item) {
				fmt.Printf("Tags for %s: %s\n", itemListTitle(item), strings.Join(item.UserTags, ", "))
			})
		},
	}

	cmd.Flags().StringSliceVar(&remove, "remove", nil, "Tags to remove")
	return cmd
}

func newNoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Attach a note to an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fmt.Errorf("note text is empty")
			}
			return applyUserUpdate(ctx, ipc.UserUpdateRequest{ID: args[0], NoteText: text}, func(item ipc.Item) {
				fmt.Printf("Noted on %s (%d note(s))\n", itemListTitle(item), len(item.Notes))
			})
		},
	}
}

func newBookmarkCommand(ctx *commandContext) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "bookmark <id> <position>",
		Short: "Add a playback bookmark, e.g. 1h12m30s or 4350",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return applyUserUpdate(ctx, ipc.UserUpdateRequest{ID: args[0], BookmarkSec: &seconds, BookmarkLabel: label}, func(item ipc.Item) {
				fmt.Printf("Bookmarked %s at %s\n", itemListTitle(item), formatListDuration(seconds))
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Optional bookmark label")
	return cmd
}

func parsePosition(raw string) (int64, error) {
	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("position %d is negative", seconds)
		}
		return seconds, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: use seconds or a duration like 1h12m30s", raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("position %s is negative", d)
	}
	return int64(d.Seconds()), nil
}

func applyUserUpdate(ctx *commandContext, req ipc.UserUpdateRequest, report func(ipc.Item)) error {
	return ctx.withClient(func(client *ipc.Client) error {
		resp, err := client.UserUpdate(req)
		if err != nil {
			return err
		}
		report(resp.Item)
		return nil
	})
}
