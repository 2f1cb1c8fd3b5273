package handlers

import (
	"encoding/json"
	"net/http"
)

type HealthHandler struct {
	pingMessage   string
	sttConfigured bool
	llmConfigured bool
}

func NewHealthHandler(pingMessage string, sttConfigured, llmConfigured bool) *HealthHandler {
	if pingMessage == "" {
		pingMessage = "ping"
	}
	return &HealthHandler{
		pingMessage:   pingMessage,
		sttConfigured: sttConfigured,
		llmConfigured: llmConfigured,
	}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports which provider credentials are configured. The process
// serves traffic either way; requests needing a missing credential fail
// at request time.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"speech_to_text":  checkStr(h.sttConfigured),
		"chat_completion": checkStr(h.llmConfigured),
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{"status": statusStr(status), "checks": checks})
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": h.pingMessage})
}

func checkStr(configured bool) string {
	if configured {
		return "ok"
	}
	return "missing credential"
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
