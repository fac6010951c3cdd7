package api

import (
	"encoding/json"
	"net/http"
)

type uploadResponse struct {
	JoinCode string `json:"joinCode"`
}

type statusResponse struct {
	Ready   bool   `json:"ready"`
	Status  string `json:"status"`
	Percent int    `json:"percent"`
	Error   string `json:"error,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

const notReadyMessage = "Nothing is available for this code yet"

// notReady is the pollable "absent" outcome shared by every fetch endpoint.
// Unknown codes, unfinished jobs and missing files all get the same body.
func notReady(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found or not ready", Message: notReadyMessage})
}
