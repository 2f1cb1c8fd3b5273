package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/icasuniversity/portal-backend/internal/summarize"
	"github.com/icasuniversity/portal-backend/internal/transcribe"
)

// FilenameHeader optionally carries the original upload filename.
const FilenameHeader = "X-Filename"

// Transcriber converts uploaded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, up transcribe.Upload) (*transcribe.Transcription, error)
}

// MeetingSummarizer turns a transcript into a structured summary.
type MeetingSummarizer interface {
	Summarize(ctx context.Context, transcript string) (*summarize.Result, error)
}

// DelegateSummaryResponse is the wire contract of the summary endpoint.
// Summary is either a MeetingSummary object or the model's raw text.
type DelegateSummaryResponse struct {
	Transcript string                 `json:"transcript"`
	Summary    summarize.SummaryValue `json:"summary"`
	ModelUsed  string                 `json:"modelUsed,omitempty"`
}

type DelegateHandler struct {
	stt        Transcriber
	summarizer MeetingSummarizer
	maxBytes   int64
}

func NewDelegateHandler(stt Transcriber, summarizer MeetingSummarizer, maxBytes int64) *DelegateHandler {
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &DelegateHandler{stt: stt, summarizer: summarizer, maxBytes: maxBytes}
}

// Summary handles POST /api/delegate/summary: raw audio bytes in, transcript
// plus structured-or-raw summary out. The operation is all-or-nothing; no
// partial result is ever returned.
func (h *DelegateHandler) Summary(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	audio, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "audio exceeds upload limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	if len(audio) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio file required (binary body)"})
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := r.Header.Get(FilenameHeader)
	if filename == "" {
		filename = transcribe.InferFilename(contentType, "meeting")
	}

	stt, err := h.stt.Transcribe(r.Context(), transcribe.Upload{
		Data:        audio,
		ContentType: contentType,
		Filename:    filename,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.summarizer.Summarize(r.Context(), stt.Text)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, DelegateSummaryResponse{
		Transcript: stt.Text,
		Summary:    result.Summary,
		ModelUsed:  result.Model,
	})
}
