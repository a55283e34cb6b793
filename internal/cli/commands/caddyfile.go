package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rce-portal/portal/internal/caddy"
	"github.com/rce-portal/portal/internal/logger"
)

// NewCaddyfileCmd creates the caddyfile command
func NewCaddyfileCmd() *cobra.Command {
	cfg := caddy.DefaultConfig()
	var output string
	var reload bool

	cmd := &cobra.Command{
		Use:   "caddyfile",
		Short: "Generate the production reverse proxy configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.Nop()
			if output != "" {
				log = logger.NewCLI("info")
			}

			svc, err := caddy.NewService(log)
			if err != nil {
				return err
			}

			if output == "" {
				if reload {
					return fmt.Errorf("--reload requires --output")
				}
				content, err := svc.Render(cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			if err := svc.Write(output, cfg); err != nil {
				return err
			}
			if reload {
				return svc.Reload(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Domain, "domain", "", "Public domain (enables Let's Encrypt)")
	cmd.Flags().StringVar(&cfg.LetsEncryptEmail, "email", "", "Let's Encrypt account email, required with --domain")
	cmd.Flags().StringVar(&cfg.Backend, "backend", cfg.Backend, "Backend address")
	cmd.Flags().StringVar(&cfg.APIPrefix, "prefix", cfg.APIPrefix, "API prefix stripped before proxying")
	cmd.Flags().StringVar(&cfg.RootDir, "root", cfg.RootDir, "Directory holding the built web shell")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this path instead of stdout")
	cmd.Flags().BoolVar(&reload, "reload", false, "Validate and reload Caddy after writing")

	return cmd
}
