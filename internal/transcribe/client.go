package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no speech-to-text credential is present.
// The server still starts without one; requests needing it fail fast here.
var ErrNotConfigured = errors.New("ELEVENLABS_API_KEY is not set")

// StatusError is a non-2xx answer from the speech-to-text provider. The
// provider body is kept verbatim for diagnosis; no retry is attempted.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transcription failed (status %d): %s", e.StatusCode, e.Body)
}

// Config holds configuration for the ElevenLabs speech-to-text backend.
type Config struct {
	APIKey   string
	BaseURL  string // default: "https://api.elevenlabs.io"
	Model    string // default: "scribe_v1"
	Language string // default: "en"
}

// Client transcribes audio through the ElevenLabs speech-to-text API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Client with sensible defaults applied.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.Model == "" {
		cfg.Model = "scribe_v1"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

// Transcription holds the transcript plus the untouched provider response.
// An empty Text is a valid result; a silent recording transcribes to "".
type Transcription struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`

	// Raw is the full provider payload (diarization tags, timing info)
	// for callers that want more than the text field.
	Raw json.RawMessage `json:"-"`
}

// Transcribe sends the audio to the provider as a multipart upload and
// extracts the transcript. One outbound call per invocation, no retries.
func (c *Client) Transcribe(ctx context.Context, up Upload) (*Transcription, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := up.Filename
	if filename == "" {
		filename = InferFilename(contentType, "audio")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	_ = mw.WriteField("model_id", c.cfg.Model)
	_ = mw.WriteField("language_code", c.cfg.Language)
	_ = mw.WriteField("tag_audio_events", "true")
	_ = mw.WriteField("diarize", "true")

	part, err := mw.CreatePart(filePartHeader(filename, contentType))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	tr := &Transcription{}
	if err := json.Unmarshal(respBody, tr); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	tr.Raw = respBody
	return tr, nil
}

// filePartHeader builds the file part with an explicit Content-Type, which
// multipart.Writer.CreateFormFile would hardcode to application/octet-stream.
func filePartHeader(filename, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
