package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/cli/config"
	"github.com/rce-portal/portal/internal/logger"
	"github.com/rce-portal/portal/internal/session"
	"github.com/rce-portal/portal/internal/shell"
)

// ShellFactory builds the shell a command runs against
type ShellFactory func() (*shell.Shell, error)

// DefaultShell loads portal.yaml and opens the configured token storage.
// This is common logic used by most commands.
func DefaultShell() (*shell.Shell, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'portal init' to create a configuration file", err)
	}

	level := cfg.LogLevel
	if envLevel := os.Getenv("PORTAL_LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	if level == "" {
		level = "warn"
	}

	store, err := session.Open(cfg.Storage, cfg.Namespace())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, cfg.Storage)
	}

	return shell.New(cfg.Origin, store, logger.NewCLI(level))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
