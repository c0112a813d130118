package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/ipc"
)

func newCoverCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Search for and install cover images",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCoverSearchCommand(ctx))
	cmd.AddCommand(newCoverSetCommand(ctx))
	return cmd
}

func newCoverSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <id>",
		Short: "List provider cover candidates for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CoverSearch(args[0])
				if err != nil {
					return err
				}
				if len(resp.URLs) == 0 {
					fmt.Println("No cover candidates found.")
					return nil
				}
				for i, url := range resp.URLs {
					fmt.Printf("%2d. %s\n", i+1, url)
				}
				return nil
			})
		},
	}
}

func newCoverSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <url-or-path>",
		Short: "Install a cover image from a URL or local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CoverSet(ipc.CoverSetRequest{ID: args[0], Source: args[1]})
				if err != nil {
					return err
				}
				fmt.Printf("Cover updated: %s\n", resp.Item.ThumbnailURL)
				return nil
			})
		},
	}
}
