package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/icasuniversity/portal-backend/internal/llm"
)

const transferSystemPrompt = "You are the ICAS Smart Transfer Assistant. Answer succinctly. Use the provided JSON context when relevant. If data is missing, respond with general guidance."

// TransferAssistRequest is a single question with optional JSON context
// (the student's transfer profile, trimmed client-side).
type TransferAssistRequest struct {
	Question string          `json:"question"`
	Context  json.RawMessage `json:"context,omitempty"`
}

type TransferAssistResponse struct {
	Answer string `json:"answer"`
}

// TransferHandler proxies transfer-portal questions to the chat-completion
// provider. One shot against the auto model selector; no fallback roster.
type TransferHandler struct {
	chat llm.ChatCompleter
}

func NewTransferHandler(chat llm.ChatCompleter) *TransferHandler {
	return &TransferHandler{chat: chat}
}

// Assist handles POST /api/transfer/assistant.
func (h *TransferHandler) Assist(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "assistant not configured"})
		return
	}

	var req TransferAssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question required"})
		return
	}

	contextJSON := "null"
	if len(req.Context) > 0 {
		contextJSON = string(req.Context)
	}

	resp, err := h.chat.CreateChatCompletion(r.Context(), openai.ChatCompletionRequest{
		Model: "openrouter/auto",
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: transferSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s\nContext: %s", req.Question, contextJSON)},
		},
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		// Provider answers keep their body in a separate detail field.
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":  "OpenRouter error",
				"detail": apiErr.Message,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	answer := ""
	if len(resp.Choices) > 0 {
		answer = resp.Choices[0].Message.Content
	}
	writeJSON(w, http.StatusOK, TransferAssistResponse{Answer: answer})
}
