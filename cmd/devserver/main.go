package main

import (
	"fmt"
	"os"

	"github.com/rce-portal/portal/internal/config"
	"github.com/rce-portal/portal/internal/logger"
	"github.com/rce-portal/portal/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	log := logger.GetLogger()

	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create dev server")
	}

	log.Info().
		Str("version", version).
		Str("backend", cfg.Proxy.Target).
		Str("api_prefix", cfg.Proxy.Prefix).
		Msg("Starting portal dev server...")

	// Blocks until SIGINT/SIGTERM
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Dev server failed")
	}
}
