package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport marks failures where no HTTP response was received.
var ErrTransport = errors.New("backend unreachable")

type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func IsUnauthorized(err error) bool {
	return HasStatus(err, http.StatusUnauthorized)
}

func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

func HasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Message returns what should be shown to the user for err: the backend's
// message when there is one, a generic line otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrTransport) {
		return "Network error."
	}
	return fallback
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func extractMessage(status int, body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("request failed (%s)", http.StatusText(status))
}
