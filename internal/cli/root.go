package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree against the given shell factory
func NewRootCmd(newShell commands.ShellFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "RCE portal - comprobantes and companies from the terminal",
		Long: `RCE portal CLI - browse the invoice/voucher portal from your terminal.

The session token is kept in your OS keychain (or the storage set in
portal.yaml) and sent with every API call. A rejected token is cleared
and you are sent back to the login page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portal version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd(newShell))
	rootCmd.AddCommand(commands.NewLogoutCmd(newShell))
	rootCmd.AddCommand(commands.NewWhoamiCmd(newShell))
	rootCmd.AddCommand(commands.NewOpenCmd(newShell))
	rootCmd.AddCommand(commands.NewRoutesCmd())
	rootCmd.AddCommand(commands.NewAutomationCmd(newShell))
	rootCmd.AddCommand(commands.NewDownloadCmd(newShell))
	rootCmd.AddCommand(commands.NewCaddyfileCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd(commands.DefaultShell).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
