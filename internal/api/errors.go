package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/aerial/internal/shared"
)

// TransportError means the request never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", shared.ErrTransport, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{shared.ErrTransport, e.Err}
}

// StatusError is a response outside 2xx. Body is the raw response text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: %d", shared.ErrBadStatus, e.StatusCode)
	}
	return fmt.Sprintf("%v: %d: %s", shared.ErrBadStatus, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == shared.ErrBadStatus
}

type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}

// Reason returns the provider's machine-readable reason, e.g. "NO_ACTIVE_DEVICE", or "" when the
// body carries none.
func (e *StatusError) Reason() string {
	var body errorBody
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return ""
	}
	return body.Error.Reason
}

// HasReason reports whether the response carries reason, either as the structured reason field
// or anywhere in the raw body.
func (e *StatusError) HasReason(reason string) bool {
	return e.Reason() == reason || strings.Contains(e.Body, reason)
}

// ExtractionError means a 2xx body did not decode into the expected type.
type ExtractionError struct {
	Body string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%v: %v", shared.ErrBodyExtraction, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	return []error{shared.ErrBodyExtraction, e.Err}
}
