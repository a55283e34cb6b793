package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/cli/routeselect"
	"github.com/rce-portal/portal/internal/router"
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the pages of the portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tACCESS")
			fmt.Fprintln(w, "────\t────\t──────")

			for _, option := range routeselect.Options(router.Routes()) {
				access := "public"
				switch {
				case option.Auth:
					access = "signed in"
				case option.Name == router.NameLogin:
					access = "guest"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", option.Path, option.Name, access)
			}

			return w.Flush()
		},
	}
}
