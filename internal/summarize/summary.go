package summarize

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MeetingSummary is the JSON contract the model is instructed to emit.
// Summary is the only required field; absent lists are omitted from the
// wire form rather than serialized as null or empty.
type MeetingSummary struct {
	Title       string          `json:"title,omitempty"`
	Summary     string          `json:"summary"`
	Attendees   []string        `json:"attendees,omitempty"`
	Agenda      []string        `json:"agenda,omitempty"`
	Decisions   []string        `json:"decisions,omitempty"`
	ActionItems []ActionItem    `json:"action_items,omitempty"`
	Risks       []string        `json:"risks,omitempty"`
	NextSteps   []string        `json:"next_steps,omitempty"`
	Timeline    []TimelineEntry `json:"timeline,omitempty"`
}

// ActionItem is a single owned task from the meeting.
type ActionItem struct {
	Owner   string `json:"owner"`
	Task    string `json:"task"`
	DueDate string `json:"due_date,omitempty"`
}

// TimelineEntry is a notable moment in the meeting.
type TimelineEntry struct {
	Timestamp string `json:"timestamp,omitempty"`
	Note      string `json:"note"`
}

// SummaryValue is the structured-or-raw outcome of a summarization run.
// Structured is non-nil when the model produced parseable contract JSON;
// otherwise Raw carries the model output verbatim. Renderers must branch
// on IsStructured rather than shape-sniffing.
type SummaryValue struct {
	Structured *MeetingSummary
	Raw        string
}

func (v SummaryValue) IsStructured() bool { return v.Structured != nil }

// MarshalJSON renders the variant the way the wire contract expects:
// the MeetingSummary object when structured, the plain string otherwise.
func (v SummaryValue) MarshalJSON() ([]byte, error) {
	if v.Structured != nil {
		return json.Marshal(v.Structured)
	}
	return json.Marshal(v.Raw)
}

// UnmarshalJSON accepts either wire form.
func (v *SummaryValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		v.Structured = nil
		return json.Unmarshal(trimmed, &v.Raw)
	}
	var ms MeetingSummary
	if err := json.Unmarshal(trimmed, &ms); err != nil {
		return err
	}
	v.Structured = &ms
	v.Raw = ""
	return nil
}

// ParseSummary attempts the strict JSON contract and degrades to the raw
// text when the model did not comply. A parse failure is never an error;
// an unstructured answer beats no answer.
func ParseSummary(content string) SummaryValue {
	text := StripCodeFences(content)
	if !strings.HasPrefix(text, "{") {
		return SummaryValue{Raw: content}
	}
	var ms MeetingSummary
	if err := json.Unmarshal([]byte(text), &ms); err != nil {
		return SummaryValue{Raw: content}
	}
	return SummaryValue{Structured: &ms}
}

// StripCodeFences removes leading/trailing markdown fences that some models
// add despite being told not to. It only handles that one failure mode.
// The fence tag is matched case-insensitively; models emit ```JSON too.
func StripCodeFences(content string) string {
	text := strings.TrimSpace(content)
	if prefix := "```json"; len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix) {
		text = text[len(prefix):]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
