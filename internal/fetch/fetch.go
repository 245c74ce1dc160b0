package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"mailsift/internal/models"
)

// Source lists raw messages from a mailbox. The network transport and
// authentication against the provider live outside this module; a Source
// only has to produce the provider's message shape.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]*models.RawMessage, error)
}

// Dir reads messages exported as one JSON document per file from a local
// directory, in file-name order. Files that fail to parse are skipped with a
// warning so one bad export does not stop the batch.
type Dir struct {
	path   string
	logger zerolog.Logger
}

// NewDir creates a directory-backed message source.
func NewDir(path string, logger zerolog.Logger) *Dir {
	return &Dir{path: path, logger: logger}
}

// Fetch reads up to limit raw messages from the export directory. A limit of
// zero or less reads everything.
func (d *Dir) Fetch(ctx context.Context, limit int) ([]*models.RawMessage, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export directory %s: %w", d.path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var messages []*models.RawMessage
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return messages, err
		}
		if limit > 0 && len(messages) >= limit {
			break
		}

		path := filepath.Join(d.path, name)
		data, err := os.ReadFile(path)
		if err != nil {
			d.logger.Warn().Err(err).Str("file", path).Msg("Could not read message export")
			continue
		}

		var msg models.RawMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			d.logger.Warn().Err(err).Str("file", path).Msg("Could not parse message export")
			continue
		}
		if msg.ID == "" {
			d.logger.Warn().Str("file", path).Msg("Message export has no id, skipping")
			continue
		}

		messages = append(messages, &msg)
	}

	return messages, nil
}
