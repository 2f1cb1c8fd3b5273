package llm

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI-compatible client this service
// uses. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds configuration for the OpenRouter chat-completion backend.
type Config struct {
	APIKey  string
	BaseURL string // default: "https://openrouter.ai/api/v1"
	Referer string // OpenRouter attribution, sent as HTTP-Referer
	Title   string // OpenRouter attribution, sent as X-Title
}

// NewOpenRouterClient builds a go-openai client pointed at OpenRouter's
// OpenAI-compatible endpoint, with the attribution headers OpenRouter asks
// for injected into every request.
func NewOpenRouterClient(cfg Config) *openai.Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}

	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cfg.BaseURL
	cc.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cfg.Title,
		},
	}
	return openai.NewClientWithConfig(cc)
}

type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(r)
}
