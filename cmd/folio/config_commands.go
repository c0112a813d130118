package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"folio/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and bootstrap the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigInitCommand(ctx))
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolvedPath, exists, err := config.Load(path)
			if err != nil {
				return err
			}
			source := resolvedPath
			if !exists {
				source = fmt.Sprintf("%s (not found, using defaults)", resolvedPath)
			}
			fmt.Printf("Config file:   %s\n", source)
			fmt.Printf("Library:       %s\n", cfg.Paths.LibraryDir)
			fmt.Printf("Data dir:      %s\n", cfg.Paths.DataDir)
			fmt.Printf("Cover dir:     %s\n", cfg.Paths.CoverDir)
			fmt.Printf("Socket:        %s\n", cfg.Paths.SocketPath)
			fmt.Printf("Database:      %s\n", cfg.DatabasePath())
			fmt.Printf("Log file:      %s\n", cfg.LogFilePath())
			fmt.Printf("Provider:      %s (max %d results, %s)\n", cfg.Provider.BaseURL, cfg.Provider.MaxResults, cfg.Provider.Language)
			fmt.Printf("Extensions:    %s\n", strings.Join(cfg.Scan.Extensions, ", "))
			fmt.Printf("Watch:         %t\n", cfg.Scan.Watch)
			if cfg.Notifications.NtfyTopic != "" {
				fmt.Printf("Notifications: ntfy topic %s\n", cfg.Notifications.NtfyTopic)
			} else {
				fmt.Printf("Notifications: disabled\n")
			}
			return nil
		},
	}
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			err := config.WriteSample(path)
			if err != nil && force {
				// WriteSample refuses to clobber; honor --force by retrying
				// after removing the existing file.
				if removeErr := removeExistingConfig(path); removeErr != nil {
					return removeErr
				}
				err = config.WriteSample(path)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Wrote sample configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}

func removeExistingConfig(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing config: %w", err)
	}
	return nil
}
