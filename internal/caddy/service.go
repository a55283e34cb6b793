package caddy

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CaddyfileTemplate serves the built web shell and strips the API prefix
// before handing requests to the backend, mirroring the dev proxy rule.
const CaddyfileTemplate = `# RCE portal web shell and API reverse proxy
{{if .Domain}}{{.Domain}}{{else}}:80{{end}} {
    {{- if .Domain}}
    tls {{.LetsEncryptEmail}}
    {{- end}}

    log {
        format json
    }

    # API calls - prefix stripped before reaching the backend
    handle_path {{.APIPrefix}}/* {
        reverse_proxy {{.Backend}}
    }

    # Web shell with history fallback
    handle {
        root * {{.RootDir}}
        try_files {path} /index.html
        file_server

        header {
            X-Content-Type-Options "nosniff"
            X-Frame-Options "DENY"
            Referrer-Policy "strict-origin-when-cross-origin"
        }
    }
}
`

// Config represents the configuration needed to generate a Caddyfile
type Config struct {
	Domain           string // Custom domain, empty serves plain HTTP on :80
	LetsEncryptEmail string `validate:"required_with=Domain"`
	Backend          string `validate:"required"` // host:port or URL of the backend
	APIPrefix        string `validate:"required,startswith=/"`
	RootDir          string `validate:"required"`
}

// DefaultConfig matches the docker-compose layout
func DefaultConfig() Config {
	return Config{
		Backend:   "backend:8654",
		APIPrefix: "/api",
		RootDir:   "/usr/share/rce-portal",
	}
}

// Service handles Caddyfile generation and reload operations
type Service struct {
	logger   zerolog.Logger
	tmpl     *template.Template
	validate *validator.Validate
}

// NewService creates a new Caddy service
func NewService(logger zerolog.Logger) (*Service, error) {
	tmpl, err := template.New("caddyfile").Parse(CaddyfileTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Caddyfile template: %w", err)
	}

	return &Service{
		logger:   logger,
		tmpl:     tmpl,
		validate: validator.New(),
	}, nil
}

// Render generates the Caddyfile content
func (s *Service) Render(cfg Config) (string, error) {
	cfg.APIPrefix = strings.TrimRight(cfg.APIPrefix, "/")
	if err := s.validate.Struct(cfg); err != nil {
		return "", fmt.Errorf("invalid Caddy configuration: %w", err)
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("failed to generate Caddyfile: %w", err)
	}

	return buf.String(), nil
}

// Write renders the Caddyfile to path atomically
func (s *Service) Write(path string, cfg Config) error {
	content, err := s.Render(cfg)
	if err != nil {
		return err
	}

	// Write to temporary file first (atomic write)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write temporary Caddyfile: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move Caddyfile to final location: %w", err)
	}

	s.logger.Info().
		Str("domain", cfg.Domain).
		Str("backend", cfg.Backend).
		Str("path", path).
		Msg("Caddyfile generated successfully")

	return nil
}

// Reload validates the Caddyfile at path and reloads Caddy without downtime
func (s *Service) Reload(path string) error {
	if output, err := exec.Command("caddy", "validate", "--config", path).CombinedOutput(); err != nil {
		return fmt.Errorf("validation failed: %w\nOutput: %s", err, string(output))
	}

	if output, err := exec.Command("caddy", "reload", "--config", path).CombinedOutput(); err != nil {
		return fmt.Errorf("reload failed: %w\nOutput: %s", err, string(output))
	}

	s.logger.Info().Msg("Caddy reloaded successfully")
	return nil
}
