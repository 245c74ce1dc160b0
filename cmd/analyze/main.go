package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mailsift/internal/analyzer"
	"mailsift/internal/config"
	"mailsift/internal/fetch"
	"mailsift/internal/ingest"
	"mailsift/internal/store"
)

func main() {
	// Parse command line flags
	exportDir := flag.String("dir", "", "Directory of exported raw message JSON files (overrides MAILBOX_EXPORT_DIR)")
	dbFile := flag.String("db", "", "Path to the email database file (overrides DB_FILE)")
	limit := flag.Int("limit", 0, "Maximum messages to ingest (0 uses FETCH_LIMIT)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}
	if *dbFile != "" {
		cfg.DBFile = *dbFile
	}
	fetchLimit := cfg.FetchLimit
	if *limit > 0 {
		fetchLimit = *limit
	}

	logger := cfg.SetupLogger()
	logger.Info().Str("export_dir", cfg.ExportDir).Int("limit", fetchLimit).Msg("Starting email analysis run")

	st := store.Open(cfg.DBFile, logger)
	source := fetch.NewDir(cfg.ExportDir, logger)
	an := analyzer.New(cfg, logger)
	runner := ingest.NewRunner(source, st, an, logger)

	result, err := runner.Run(context.Background(), fetchLimit)
	if err != nil {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("Failed to close email database")
		}
		logger.Fatal().Err(err).Msg("Ingestion run failed")
	}

	logger.Info().
		Int("fetched", result.Fetched).
		Int("stored", result.Stored).
		Int("duplicates", result.Duplicates).
		Int("analyzed", result.Analyzed).
		Int("failed", result.Failed).
		Msg("Ingestion run complete")

	displayRecent(st, 5)
	displayStats(st)

	if err := st.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close email database")
		os.Exit(1)
	}
}

// displayRecent prints a short human-readable listing of the latest emails.
func displayRecent(st *store.Store, limit int) {
	emails := st.Recent(limit)

	fmt.Printf("\n%d most recent emails:\n", len(emails))
	for i, email := range emails {
		fmt.Printf("\n%d. %s\n", i+1, orDefault(email.Subject, "No Subject"))
		fmt.Printf("   From: %s <%s>\n", email.SenderName, email.SenderEmail)
		fmt.Printf("   Date: %s\n", orDefault(email.Date, "Unknown"))
		fmt.Printf("   Processed: %v\n", email.Processed)
		if len(email.Attachments) > 0 {
			fmt.Printf("   Attachments: %d file(s)\n", len(email.Attachments))
		}
	}
}

func displayStats(st *store.Store) {
	stats := st.Stats()

	fmt.Println("\nDatabase statistics:")
	fmt.Printf("   Total emails: %d\n", stats.TotalEmails)
	fmt.Printf("   Processed: %d\n", stats.ProcessedEmails)
	fmt.Printf("   Unprocessed: %d\n", stats.UnprocessedEmails)
	fmt.Printf("   Unique senders: %d\n", stats.UniqueSenders)
	if stats.OldestEmailDate != nil && stats.NewestEmailDate != nil {
		fmt.Printf("   Oldest: %s\n", stats.OldestEmailDate.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Newest: %s\n", stats.NewestEmailDate.Format("2006-01-02 15:04:05"))
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
