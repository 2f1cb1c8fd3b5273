package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// fakeChat scripts one outcome per attempt and records the models tried.
type fakeChat struct {
	attempted []string
	respond   func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.attempted = append(f.attempted, req.Model)
	if f.respond == nil {
		return completion("ok"), nil
	}
	return f.respond(len(f.attempted), req)
}

func completion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestSummarizeFallbackOrder(t *testing.T) {
	models := []string{"model-a", "model-b", "model-c", "model-d"}
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			if attempt <= 2 {
				return openai.ChatCompletionResponse{}, fmt.Errorf("HTTP 429")
			}
			return completion(`{"summary": "done"}`), nil
		},
	}

	s := New(fake, Config{Models: models})
	res, err := s.Summarize(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	want := []string{"model-a", "model-b", "model-c"}
	if len(fake.attempted) != len(want) {
		t.Fatalf("attempted = %v, want %v", fake.attempted, want)
	}
	for i := range want {
		if fake.attempted[i] != want[i] {
			t.Errorf("attempt %d = %q, want %q", i, fake.attempted[i], want[i])
		}
	}
	if res.Model != "model-c" {
		t.Errorf("Model = %q, want model-c", res.Model)
	}
}

func TestSummarizeAllCandidatesFail(t *testing.T) {
	models := []string{"model-a", "model-b", "model-c"}
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, fmt.Errorf("HTTP 500 from %s", req.Model)
		},
	}

	s := New(fake, Config{Models: models})
	_, err := s.Summarize(context.Background(), "transcript")
	if err == nil {
		t.Fatal("Summarize() = nil error, want failure")
	}
	// The surfaced error derives from the last candidate; no wraparound.
	if !strings.Contains(err.Error(), "model-c") {
		t.Errorf("error = %q, want last candidate's failure", err)
	}
	if len(fake.attempted) != len(models) {
		t.Errorf("attempted %d candidates, want exactly %d", len(fake.attempted), len(models))
	}
}

func TestSummarizeEmptyContentFallsBack(t *testing.T) {
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			if attempt == 1 {
				return completion(""), nil
			}
			return completion(`{"summary": "second try"}`), nil
		},
	}

	s := New(fake, Config{Models: []string{"model-a", "model-b"}})
	res, err := s.Summarize(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if res.Model != "model-b" {
		t.Errorf("Model = %q, want model-b (empty completion must trigger fallback)", res.Model)
	}
}

func TestSummarizeEmptyContentExhaustsRoster(t *testing.T) {
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return completion(""), nil
		},
	}

	s := New(fake, Config{Models: []string{"model-a", "model-b"}})
	_, err := s.Summarize(context.Background(), "transcript")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("error = %v, want ErrEmptyCompletion in chain", err)
	}
}

func TestSummarizeRawFallbackKeepsModel(t *testing.T) {
	prose := "The team talked about the roadmap; no JSON here."
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return completion(prose), nil
		},
	}

	s := New(fake, Config{Models: []string{"model-a"}})
	res, err := s.Summarize(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if res.Summary.IsStructured() {
		t.Fatal("prose output must degrade to raw, not error")
	}
	if res.Summary.Raw != prose {
		t.Errorf("Raw = %q, want model output unchanged", res.Summary.Raw)
	}
	if res.Model != "model-a" {
		t.Errorf("Model = %q, want model-a", res.Model)
	}
}

func TestSummarizeFencedJSON(t *testing.T) {
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return completion("```json\n{\"summary\": \"fenced\"}\n```"), nil
		},
	}

	s := New(fake, Config{Models: []string{"model-a"}})
	res, err := s.Summarize(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !res.Summary.IsStructured() || res.Summary.Structured.Summary != "fenced" {
		t.Errorf("fenced JSON should parse, got %+v", res.Summary)
	}
}

func TestSummarizeNotConfigured(t *testing.T) {
	s := New(nil, Config{})
	_, err := s.Summarize(context.Background(), "transcript")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}

func TestSummarizePromptCarriesTranscript(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			gotReq = req
			return completion(`{"summary": "s"}`), nil
		},
	}

	s := New(fake, Config{Models: []string{"model-a"}})
	if _, err := s.Summarize(context.Background(), "Let's discuss the Q3 roadmap."); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if len(gotReq.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q, want system", gotReq.Messages[0].Role)
	}
	user := gotReq.Messages[1].Content
	if !strings.Contains(user, "Let's discuss the Q3 roadmap.") {
		t.Error("user prompt must embed the transcript")
	}
	if !strings.Contains(user, "STRICT JSON") {
		t.Error("user prompt must demand strict JSON")
	}
	if gotReq.MaxTokens != 1200 {
		t.Errorf("MaxTokens = %d, want default 1200", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want default 0.2", gotReq.Temperature)
	}
}

func TestSummarizeCancelledContextStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := &fakeChat{
		respond: func(attempt int, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			cancel()
			return openai.ChatCompletionResponse{}, ctx.Err()
		},
	}

	s := New(fake, Config{Models: []string{"model-a", "model-b", "model-c"}})
	_, err := s.Summarize(ctx, "transcript")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(fake.attempted) != 1 {
		t.Errorf("attempted = %v, want no candidates after cancellation", fake.attempted)
	}
}
