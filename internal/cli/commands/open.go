package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/cli/routeselect"
	"github.com/rce-portal/portal/internal/router"
	"github.com/rce-portal/portal/internal/shell"
)

// NewOpenCmd creates the open command
func NewOpenCmd(newShell ShellFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Navigate to a page and show it",
		Long: `Navigate to a page of the portal, e.g. /dashboard or /empresas.

Pages that need a session send you to /login when you are not signed in,
and /login sends you to /dashboard when you are. Without a path an
interactive picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) == 1 {
				location = args[0]
			} else {
				picked, err := routeselect.PromptRoute(router.Routes())
				if err != nil {
					return err
				}
				location = picked
			}
			return runOpen(cmd, newShell, location)
		},
	}
}

func runOpen(cmd *cobra.Command, newShell ShellFactory, location string) error {
	sh, err := newShell()
	if err != nil {
		return err
	}

	// Query strings and trailing slashes resolve to the same route
	requested, err := sh.Router.Resolve(location)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	match, err := sh.Open(commandContext(cmd), location, out)
	if err != nil {
		if errors.Is(err, shell.ErrSessionExpired) {
			fmt.Fprintf(out, "→ %s\n", sh.Router.Location())
			return fmt.Errorf("session expired. Please run 'portal login' again")
		}
		return err
	}

	if match.Path != requested.Path {
		fmt.Fprintf(cmd.ErrOrStderr(), "→ redirected to %s\n", match.Path)
	}

	return nil
}
