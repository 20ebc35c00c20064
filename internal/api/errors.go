package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the single failure kind returned by Client.
//
// It covers three situations that the session layer does not distinguish:
//   - transport failure: Status is 0 and Err holds the cause
//   - non-success status: Status is set and Message holds the authority's detail
//   - malformed success body: Status is set, Message is "malformed response", Err holds the decode error
type Error struct {
	// Op names the client method that failed (e.g. "CookConfirm").
	Op string

	// Status is the HTTP status code, or 0 if no response was received.
	Status int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from an error returned by Client.
// Returns 0 for transport failures and for errors not produced by Client.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// detailMessage extracts the authority's error text from a response body.
// The authority answers rejections with {"detail": "..."}; validation failures
// carry a list under "detail" instead, in which case the status text is used.
func detailMessage(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && s != "" {
			return s
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
