package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the dev server
type Config struct {
	// HTTP listener
	Server ServerConfig

	// Backend proxy rule
	Proxy ProxyConfig

	// Built web shell
	Static StaticConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ServerConfig holds listener configuration
type ServerConfig struct {
	Addr         string   `validate:"required"`
	AllowOrigins []string `validate:"dive,url"`
}

// ProxyConfig holds the /api forwarding rule
type ProxyConfig struct {
	Target       string `validate:"required,url"`
	Prefix       string `validate:"required,startswith=/"`
	ChangeOrigin bool
	Secure       bool
}

// StaticConfig points at the built SPA, empty disables static serving
type StaticConfig struct {
	Dir string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `validate:"omitempty,oneof=debug info warn warning error fatal panic"`
	Format string `validate:"omitempty,oneof=json console"`
	File   string // empty or "-" logs to stdout
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	changeOrigin, err := envBool("PROXY_CHANGE_ORIGIN", true)
	if err != nil {
		return nil, err
	}

	secure, err := envBool("PROXY_SECURE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:         envString("LISTEN_ADDR", ":5173"),
			AllowOrigins: splitList(envString("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		},
		Proxy: ProxyConfig{
			Target:       envString("BACKEND_URL", "http://backend:8654"),
			Prefix:       envString("API_PREFIX", "/api"),
			ChangeOrigin: changeOrigin,
			Secure:       secure,
		},
		Static: StaticConfig{
			Dir: envString("STATIC_DIR", "dist"),
		},
		Logging: LoggingConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
