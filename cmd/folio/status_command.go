package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"folio/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				status := resp.Status
				colorize := shouldColorize(os.Stdout)

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Println(line)
				}
				runningKind := statusError
				runningText := "stopped"
				if status.Running {
					runningKind = statusOK
					runningText = fmt.Sprintf("running (pid %d)", status.PID)
				}
				fmt.Println(renderStatusLine("State", runningKind, runningText, colorize))
				fmt.Println(renderStatusLine("Library", statusInfo, status.LibraryDir, colorize))
				fmt.Println(renderStatusLine("Database", statusInfo, status.DatabasePath, colorize))
				fmt.Println(renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))

				fmt.Println()
				for _, line := range renderSectionHeader("Catalog", colorize) {
					fmt.Println(line)
				}
				stats := status.Stats
				fmt.Println(renderStatusLine("Items", statusInfo, fmt.Sprintf("%d", stats.Items), colorize))
				fmt.Println(renderStatusLine("Reconciled", statusInfo, fmt.Sprintf("%d", stats.Reconciled), colorize))
				fmt.Println(renderStatusLine("Favorites", statusInfo, fmt.Sprintf("%d", stats.Favorites), colorize))
				updatingKind := statusInfo
				if stats.Updating > 0 {
					updatingKind = statusWarn
				}
				fmt.Println(renderStatusLine("Updating", updatingKind, fmt.Sprintf("%d", stats.Updating), colorize))
				for _, id := range status.Updating {
					fmt.Printf("%s  - %s\n", statusIndent, id)
				}
				return nil
			})
		},
	}
}
