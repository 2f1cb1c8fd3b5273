package transcribe

import "strings"

// Upload is a request-scoped audio payload awaiting transcription.
type Upload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// InferFilename derives an upload filename from a MIME type when the caller
// did not supply one explicitly. Unknown types get a .bin extension.
func InferFilename(contentType, base string) string {
	if base == "" {
		base = "audio"
	}
	ext := "bin"
	switch {
	case strings.Contains(contentType, "wav"):
		ext = "wav"
	case strings.Contains(contentType, "mp3"), strings.Contains(contentType, "mpeg"):
		ext = "mp3"
	case strings.Contains(contentType, "m4a"):
		ext = "m4a"
	case strings.Contains(contentType, "ogg"):
		ext = "ogg"
	case strings.Contains(contentType, "webm"):
		ext = "webm"
	}
	return base + "." + ext
}
