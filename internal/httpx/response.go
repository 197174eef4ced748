// Package httpx writes the JSON envelopes shared by every endpoint: plain
// payloads on success, a machine-readable code plus optional detail on
// failure.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error envelope. Error is a stable snake_case code;
// Details carries whatever the code needs explained (field violations for
// validation_failed, a human-readable message for conflicts).
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON marshals payload and writes it with the given status. Marshalling is
// done before the header goes out so an encode failure can still produce a
// clean 500 instead of a truncated body.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// response already committed
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, code string, details any) {
	JSON(w, status, ErrorResponse{Error: code, Details: details})
}
