package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"mailsift/internal/analyzer"
	"mailsift/internal/emails"
	"mailsift/internal/fetch"
	"mailsift/internal/store"
)

// Result summarizes one ingestion run.
type Result struct {
	Fetched    int
	Stored     int
	Duplicates int
	Analyzed   int
	Failed     int
}

// Runner drives the fetch, decompose, store, analyze, mark-processed batch.
type Runner struct {
	source   fetch.Source
	store    *store.Store
	analyzer *analyzer.Analyzer
	logger   zerolog.Logger
}

// NewRunner wires an ingestion runner from its collaborators.
func NewRunner(source fetch.Source, st *store.Store, an *analyzer.Analyzer, logger zerolog.Logger) *Runner {
	return &Runner{source: source, store: st, analyzer: an, logger: logger}
}

// Run fetches up to limit messages and pushes each through the pipeline.
// Per-message failures are counted and logged but do not stop the batch; only
// a failed fetch aborts the run.
func (r *Runner) Run(ctx context.Context, limit int) (Result, error) {
	var result Result

	messages, err := r.source.Fetch(ctx, limit)
	if err != nil {
		return result, fmt.Errorf("failed to fetch messages: %w", err)
	}
	result.Fetched = len(messages)
	r.logger.Info().Int("messages", len(messages)).Msg("Fetched messages")

	for _, msg := range messages {
		email := emails.Decompose(msg)

		if existing, ok := r.store.Get(email.ID); ok {
			result.Duplicates++
			if existing.Processed {
				continue
			}
			// Stored on an earlier run but never analyzed; pick it up now.
			email = existing
		} else {
			if _, err := r.store.Insert(email); err != nil {
				r.logger.Error().Err(err).Str("email_id", email.ID).Msg("Failed to store email")
				result.Failed++
				continue
			}
			result.Stored++
		}

		analysis := r.analyzer.Analyze(ctx, email)
		payload, err := json.Marshal(analysis)
		if err != nil {
			r.logger.Error().Err(err).Str("email_id", email.ID).Msg("Failed to encode analysis")
			result.Failed++
			continue
		}

		if _, err := r.store.MarkProcessed(email.ID, payload); err != nil {
			r.logger.Error().Err(err).Str("email_id", email.ID).Msg("Failed to mark email processed")
			result.Failed++
			continue
		}

		r.logger.Info().
			Str("email_id", email.ID).
			Str("subject", email.Subject).
			Str("priority", analysis.Priority).
			Msg("Email analyzed")
		result.Analyzed++
	}

	return result, nil
}
