package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/ipc"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test push notification through the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				if err != nil {
					return err
				}
				if resp.Sent {
					fmt.Println("Test notification sent.")
				} else {
					fmt.Printf("Test notification not sent: %s\n", resp.Message)
				}
				return nil
			})
		},
	}
}
