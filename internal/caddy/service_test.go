package caddy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Default(t *testing.T) {
	svc, err := NewService(zerolog.Nop())
	require.NoError(t, err)

	content, err := svc.Render(DefaultConfig())
	require.NoError(t, err)

	assert.Contains(t, content, ":80 {")
	assert.Contains(t, content, "handle_path /api/* {")
	assert.Contains(t, content, "reverse_proxy backend:8654")
	assert.Contains(t, content, "try_files {path} /index.html")
	assert.NotContains(t, content, "tls ")
}

func TestRender_Domain(t *testing.T) {
	svc, err := NewService(zerolog.Nop())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Domain = "rce.example.com"
	cfg.LetsEncryptEmail = "ops@example.com"
	cfg.APIPrefix = "/api/"

	content, err := svc.Render(cfg)
	require.NoError(t, err)
	assert.Contains(t, content, "rce.example.com {")
	assert.Contains(t, content, "tls ops@example.com")
	assert.Contains(t, content, "handle_path /api/* {")
}

func TestRender_Invalid(t *testing.T) {
	svc, err := NewService(zerolog.Nop())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Domain = "rce.example.com"
	_, err = svc.Render(cfg)
	assert.Error(t, err, "domain requires an ACME email")

	cfg = DefaultConfig()
	cfg.APIPrefix = "api"
	_, err = svc.Render(cfg)
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	svc, err := NewService(zerolog.Nop())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Caddyfile")
	require.NoError(t, svc.Write(path, DefaultConfig()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reverse_proxy backend:8654")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
