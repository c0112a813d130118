package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/ipc"
	"folio/internal/reconcile"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var mode string
	var query string
	var withCover bool

	cmd := &cobra.Command{
		Use:   "reconcile <id>",
		Short: "Fetch provider metadata and merge it into an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := reconcile.ParseMode(mode); err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Reconcile(ipc.ReconcileRequest{
					ID:        args[0],
					Query:     query,
					Mode:      mode,
					WithCover: withCover,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Reconciled %s\n\n", resp.Item.ID)
				printItemDetail(resp.Item)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(reconcile.ModeEnhance), "Merge mode: enhance, update, or replace")
	cmd.Flags().StringVar(&query, "query", "", "Override the provider search query")
	cmd.Flags().BoolVar(&withCover, "cover", false, "Also adopt the candidate's cover image")
	return cmd
}
