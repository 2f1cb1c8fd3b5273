package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/icasuniversity/portal-backend/internal/llm"
)

// ErrNotConfigured is returned when no chat-completion credential is present.
var ErrNotConfigured = errors.New("OPENROUTER_API_KEY is not set")

// ErrEmptyCompletion marks a model that answered 2xx with no content.
// It is treated exactly like an HTTP failure: skip to the next candidate.
var ErrEmptyCompletion = errors.New("empty model response")

// DefaultModels is the fallback roster, cheapest first. Candidates are
// attempted strictly in this order, never concurrently.
var DefaultModels = []string{
	"meta-llama/llama-3.1-70b-instruct:free",
	"meta-llama/llama-3.1-8b-instruct:free",
	"google/gemini-2.0-flash-001",
	"openai/gpt-4o-mini",
	"mistralai/mistral-small",
	"deepseek/deepseek-chat",
}

const systemPrompt = "You are a helpful meeting summarizer. Produce accurate, structured summaries with actionability for students and staff."

const userPromptFormat = `Generate a structured JSON summary of this meeting transcript.

Requirements:
- Output STRICT JSON only (no markdown, no code fences).
- Use this schema with keys: {
  title?: string,
  summary: string,
  attendees?: string[],
  agenda?: string[],
  decisions?: string[],
  action_items?: { owner: string, task: string, due_date?: string }[],
  risks?: string[],
  next_steps?: string[],
  timeline?: { timestamp?: string, note: string }[]
}.
- Be concise but cover: goals, key discussion points, decisions, action items (owners, deadlines), risks, and next steps.
- Include a short timeline capturing notable moments if possible.

Transcript:
%s`

// Config holds the tunables of the fallback chain.
type Config struct {
	Models         []string      // default: DefaultModels
	Temperature    float32       // default: 0.2
	MaxTokens      int           // default: 1200
	AttemptTimeout time.Duration // per-candidate budget, default: 45s
}

// Result is one successful summarization: which candidate answered, its raw
// output, and the structured-or-raw summary derived from it.
type Result struct {
	Model   string
	Content string
	Summary SummaryValue
}

// Summarizer turns a transcript into a MeetingSummary by walking an ordered
// roster of candidate models until one produces a usable completion.
type Summarizer struct {
	client llm.ChatCompleter
	cfg    Config
}

// New creates a Summarizer. A nil client means the credential was never
// configured; Summarize then fails fast without a network call.
func New(client llm.ChatCompleter, cfg Config) *Summarizer {
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1200
	}
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = 45 * time.Second
	}
	return &Summarizer{client: client, cfg: cfg}
}

// Summarize attempts each candidate model in roster order and returns on the
// first usable completion. Per-candidate failures are remembered and only
// surfaced once the whole roster is exhausted.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (*Result, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptFormat, transcript)},
	}

	var lastErr error
	for _, model := range s.cfg.Models {
		content, err := s.attempt(ctx, model, messages)
		if err != nil {
			// The caller went away; no point trying further candidates.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("summarization candidate failed", "model", model, "error", err)
			lastErr = err
			continue
		}

		return &Result{
			Model:   model,
			Content: content,
			Summary: ParseSummary(content),
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no candidate models configured")
	}
	return nil, fmt.Errorf("all models failed: %w", lastErr)
}

func (s *Summarizer) attempt(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", model, err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	if content == "" {
		return "", fmt.Errorf("%s: %w", model, ErrEmptyCompletion)
	}
	return content, nil
}
