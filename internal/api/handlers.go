package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const maxMessageBytes = 64 << 10

// GET /healthz
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /session
func handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"authorized": true})
}

// POST /messages
func handleMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		writeError(w, http.StatusBadRequest, "invalid_body", "Field 'message' is required")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":     body.Message,
		"received_at": time.Now().UTC().Format(time.RFC3339),
		"request_id":  requestID(r.Context()),
	})
}
