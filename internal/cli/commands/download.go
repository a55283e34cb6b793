package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/apiclient"
)

type downloadOptions struct {
	id     int
	path   string
	zip    bool
	filter apiclient.BatchZipFilter
	output string
}

// NewDownloadCmd creates the download command
func NewDownloadCmd(newShell ShellFactory) *cobra.Command {
	opts := &downloadOptions{}

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download notification PDFs or stored registry files",
		Long: `Download files from the voucher repository.

  portal download --id 42                     one notification PDF
  portal download --zip --ruc 20100070970     ZIP of notification PDFs
  portal download --path <storage path>       a stored proposal file

The file is saved under the name the backend suggests unless --output is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, newShell, opts)
		},
	}

	cmd.Flags().IntVar(&opts.id, "id", 0, "Notification id")
	cmd.Flags().StringVar(&opts.path, "path", "", "Storage path of a registry file")
	cmd.Flags().BoolVar(&opts.zip, "zip", false, "Download a ZIP of notification PDFs")
	cmd.Flags().StringVar(&opts.filter.RUC, "ruc", "", "With --zip, only this RUC")
	cmd.Flags().StringVar(&opts.filter.StartDate, "from", "", "With --zip, emitted on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.filter.EndDate, "to", "", "With --zip, emitted on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Destination file")
	cmd.MarkFlagsMutuallyExclusive("id", "path", "zip")
	cmd.MarkFlagsOneRequired("id", "path", "zip")

	return cmd
}

func runDownload(cmd *cobra.Command, newShell ShellFactory, opts *downloadOptions) error {
	for _, date := range []string{opts.filter.StartDate, opts.filter.EndDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date '%s', expected YYYY-MM-DD", date)
		}
	}

	sh, err := newShell()
	if err != nil {
		return err
	}

	// Downloads go to a temp file first so a failed request leaves nothing behind
	tmp, err := os.CreateTemp(".", ".portal-download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	ctx := commandContext(cmd)
	var suggested string
	switch {
	case opts.id > 0:
		suggested, err = sh.Client.DownloadFile(ctx, opts.id, tmp)
	case opts.path != "":
		suggested, err = sh.Client.DownloadPath(ctx, opts.path, tmp)
	case opts.zip:
		suggested, err = sh.Client.BatchZip(ctx, opts.filter, tmp)
	default:
		err = fmt.Errorf("--id must be a positive notification id")
	}
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write download: %w", closeErr)
	}
	if err != nil {
		return err
	}

	dest := opts.output
	if dest == "" {
		dest = suggested
	}
	if dest == "" {
		dest = defaultDownloadName(opts)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to save %s: %w", dest, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", dest)
	return nil
}

func defaultDownloadName(opts *downloadOptions) string {
	switch {
	case opts.id > 0:
		return fmt.Sprintf("notificacion_%d.pdf", opts.id)
	case opts.path != "":
		return filepath.Base(opts.path)
	default:
		return "reportes_sunat.zip"
	}
}
