package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd(newShell ShellFactory) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, newShell, username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set PORTAL_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set PORTAL_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, newShell ShellFactory, username, password string) error {
	// Check for environment variables (useful for CI/CD)
	if username == "" {
		username = os.Getenv("PORTAL_USERNAME")
	}
	if password == "" {
		password = os.Getenv("PORTAL_PASSWORD")
	}

	if username == "" {
		return fmt.Errorf("username is required (use --username flag or PORTAL_USERNAME env var)")
	}

	if password == "" {
		// Check if stdin is a terminal (not piped)
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or PORTAL_PASSWORD env var)")
		}
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
	}

	sh, err := newShell()
	if err != nil {
		return err
	}

	resp, err := sh.Login(commandContext(cmd), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s\n", username)
	if resp.ExpiresAt != nil {
		fmt.Fprintf(out, "  Session expires: %s\n", resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}

	return nil
}
