package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"mailsift/internal/config"
	"mailsift/internal/models"
	"mailsift/internal/prioritize"
)

// Analysis is the payload attached to an email once it has been analyzed.
type Analysis struct {
	Priority string `json:"priority"`
	Summary  string `json:"summary"`
}

const summaryLimit = 150

// Analyzer produces the analysis payload for stored emails. With an OpenAI
// key configured it asks the model for a priority and summary; otherwise it
// falls back to the local keyword classifier.
type Analyzer struct {
	client *openai.Client
	cfg    *config.Config
	logger zerolog.Logger
}

// New creates an analyzer. The OpenAI client is only set up when an API key
// is configured.
func New(cfg *config.Config, logger zerolog.Logger) *Analyzer {
	a := &Analyzer{cfg: cfg, logger: logger}
	if cfg.OpenAIKey != "" {
		a.client = openai.NewClient(cfg.OpenAIKey)
		logger.Info().Msg("OpenAI analyzer enabled")
	} else {
		logger.Info().Msg("No OpenAI key configured, using local keyword classifier")
	}
	return a
}

// Analyze produces a priority and short summary for an email. It always
// returns a usable analysis: a failed API call degrades to the local
// classifier rather than failing the batch.
func (a *Analyzer) Analyze(ctx context.Context, email *models.Email) Analysis {
	if a.client != nil {
		analysis, err := a.analyzeRemote(ctx, email)
		if err == nil {
			return analysis
		}
		a.logger.Warn().Err(err).Str("email_id", email.ID).Msg("OpenAI analysis failed, using local classifier")
	}
	return a.analyzeLocal(email)
}

func (a *Analyzer) analyzeRemote(ctx context.Context, email *models.Email) (Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.OpenAITimeout)*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(
		"Subject: %s\nFrom: %s\nBody:\n%s",
		email.Subject, email.Sender, clip(email.BodyText, 2000),
	)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You triage emails. Reply with a JSON object with two keys: " +
					`"priority" (one of "high", "medium", "low") and "summary" (one sentence).`,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   200,
		Temperature: 0.2,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Analysis{}, fmt.Errorf("chat completion returned no choices")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("unexpected completion payload: %w", err)
	}

	switch analysis.Priority {
	case prioritize.High, prioritize.Medium, prioritize.Low:
	default:
		analysis.Priority = prioritize.Medium
	}
	return analysis, nil
}

func (a *Analyzer) analyzeLocal(email *models.Email) Analysis {
	summary := email.Snippet
	if summary == "" {
		summary = email.BodyText
	}
	return Analysis{
		Priority: prioritize.Classify(email, a.cfg.VIPDomain),
		Summary:  clip(summary, summaryLimit),
	}
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
