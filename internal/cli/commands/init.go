package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var storage string

	cmd := &cobra.Command{
		Use:   "init [origin]",
		Short: "Create portal.yaml in the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin := ""
			if len(args) == 1 {
				origin = args[0]
			}
			return runInit(cmd, origin, storage)
		},
	}

	cmd.Flags().StringVar(&storage, "storage", "keyring", "Token storage: keyring, file or memory")

	return cmd
}

func runInit(cmd *cobra.Command, origin, storage string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", config.ConfigFileName)
	}

	cfg := config.DefaultConfig()
	if origin != "" {
		cfg.Origin = origin
	}
	cfg.Storage = storage

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	// Round-trip through Load so a bad origin is reported now
	if _, err := config.Load(configPath); err != nil {
		os.Remove(configPath)
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created ./%s for %s\n", config.ConfigFileName, cfg.Origin)
	fmt.Fprintln(out, "\nNext step: run 'portal login' to authenticate")

	return nil
}
