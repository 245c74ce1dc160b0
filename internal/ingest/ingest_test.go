package ingest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailsift/internal/analyzer"
	"mailsift/internal/config"
	"mailsift/internal/models"
	"mailsift/internal/store"
)

// fakeSource serves a fixed message list.
type fakeSource struct {
	messages []*models.RawMessage
	err      error
}

func (f *fakeSource) Fetch(_ context.Context, limit int) ([]*models.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.messages) > limit {
		return f.messages[:limit], nil
	}
	return f.messages, nil
}

func rawMessage(id, subject, body string) *models.RawMessage {
	return &models.RawMessage{
		ID:       id,
		ThreadID: "thread-" + id,
		Snippet:  body,
		Payload: &models.MessagePart{
			MimeType: "text/plain",
			Headers: []models.Header{
				{Name: "Subject", Value: subject},
				{Name: "From", Value: "Jane Doe <jane@example.com>"},
			},
			Body: &models.MessageBody{
				Data: base64.URLEncoding.EncodeToString([]byte(body)),
			},
		},
	}
}

func newTestRunner(t *testing.T, source *fakeSource) (*Runner, *store.Store) {
	t.Helper()
	cfg := &config.Config{VIPDomain: "importantclient.com"}
	st := store.Open(filepath.Join(t.TempDir(), "emails.json"), zerolog.Nop())
	an := analyzer.New(cfg, zerolog.Nop())
	return NewRunner(source, st, an, zerolog.Nop()), st
}

func TestRun_StoresAndAnalyzes(t *testing.T) {
	source := &fakeSource{messages: []*models.RawMessage{
		rawMessage("m1", "URGENT: action needed", "please respond"),
		rawMessage("m2", "lunch?", "want to grab lunch"),
	}}
	runner, st := newTestRunner(t, source)

	result, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, result.Stored)
	assert.Equal(t, 2, result.Analyzed)
	assert.Zero(t, result.Duplicates)
	assert.Zero(t, result.Failed)

	stored, ok := st.Get("m1")
	require.True(t, ok)
	assert.True(t, stored.Processed)
	assert.Equal(t, "please respond", stored.BodyText)

	var analysis analyzer.Analysis
	require.NoError(t, json.Unmarshal(stored.AIAnalysis, &analysis))
	assert.Equal(t, "high", analysis.Priority)
}

func TestRun_SecondRunSkipsProcessedDuplicates(t *testing.T) {
	source := &fakeSource{messages: []*models.RawMessage{
		rawMessage("m1", "hello", "first body"),
	}}
	runner, st := newTestRunner(t, source)

	_, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fetched)
	assert.Zero(t, result.Stored)
	assert.Equal(t, 1, result.Duplicates)
	assert.Zero(t, result.Analyzed)
	assert.Equal(t, 1, st.Len())
}

func TestRun_FetchLimit(t *testing.T) {
	source := &fakeSource{messages: []*models.RawMessage{
		rawMessage("m1", "one", "1"),
		rawMessage("m2", "two", "2"),
		rawMessage("m3", "three", "3"),
	}}
	runner, st := newTestRunner(t, source)

	result, err := runner.Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, st.Len())
}

func TestRun_FetchFailureAborts(t *testing.T) {
	source := &fakeSource{err: assert.AnError}
	runner, st := newTestRunner(t, source)

	_, err := runner.Run(context.Background(), 0)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, st.Len())
}
