package main

import (
	"mailsift/internal/analyzer"
	"mailsift/internal/config"
	"mailsift/internal/fetch"
	"mailsift/internal/ingest"
	"mailsift/internal/server"
	"mailsift/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Open the email database
	st := store.Open(cfg.DBFile, logger)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close email database")
		}
	}()

	// Wire the ingestion pipeline behind the import endpoint
	source := fetch.NewDir(cfg.ExportDir, logger)
	an := analyzer.New(cfg, logger)
	runner := ingest.NewRunner(source, st, an, logger)

	// Create and initialize server
	srv := server.New(cfg, st, runner, logger)
	srv.Initialize()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed to start")
	}
}
