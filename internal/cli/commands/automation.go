package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/apiclient"
)

// NewAutomationCmd creates the automation command group
func NewAutomationCmd(newShell ShellFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "automation",
		Short: "Queue or stop mailbox automation runs",
	}

	cmd.AddCommand(newAutomationRunCmd(newShell))
	cmd.AddCommand(newAutomationStopCmd(newShell))

	return cmd
}

func newAutomationRunCmd(newShell ShellFactory) *cobra.Command {
	var req apiclient.AutomationRunRequest

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Queue one run per eligible company",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch req.Mode {
			case "todo", "solo_fallidos", "pendientes":
			default:
				return fmt.Errorf("invalid mode '%s', must be one of: todo, solo_fallidos, pendientes", req.Mode)
			}

			sh, err := newShell()
			if err != nil {
				return err
			}

			resp, err := sh.Client.RunAutomation(commandContext(cmd), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Queued %d run(s)\n", len(resp.Runs))
			for _, msg := range resp.Errors {
				fmt.Fprintf(out, "  ⚠ %s\n", msg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Mode, "mode", "todo", "Which companies to run: todo, solo_fallidos or pendientes")
	cmd.Flags().IntVar(&req.DaysBack, "days-back", 7, "How many days of mailbox to scan")
	cmd.Flags().BoolVar(&req.ShowBrowser, "show-browser", false, "Run the scraper with a visible browser")
	cmd.Flags().StringSliceVar(&req.RUCs, "ruc", nil, "Limit to these RUCs")

	return cmd
}

func newAutomationStopCmd(newShell ShellFactory) *cobra.Command {
	var ruc string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Ask running jobs to stop after the current company",
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newShell()
			if err != nil {
				return err
			}
			if err := sh.Client.StopAutomation(commandContext(cmd), ruc); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Stop requested")
			return nil
		},
	}

	cmd.Flags().StringVar(&ruc, "ruc", "", "Only stop the run for this RUC")

	return cmd
}
