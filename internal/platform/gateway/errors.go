package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// serverError is the structured error payload the backend returns on 4xx/5xx.
type serverError struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
}

// APIError is the single error type every failed request normalizes to,
// whether the failure was network-level, a structured server error payload,
// or an envelope-level logical failure.
type APIError struct {
	StatusCode int    // 0 for client-side/network failures
	Message    string // human-readable, always set
	Endpoint   string
	Err        error // underlying transport error, if any
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// normalizeTransportError wraps a client-side failure (DNS, timeout, refused
// connection) into an APIError.
func normalizeTransportError(endpoint string, err error) *APIError {
	return &APIError{
		Message:  err.Error(),
		Endpoint: endpoint,
		Err:      err,
	}
}

// normalizeStatusError maps a non-2xx response to an APIError, preferring the
// message from a structured server payload over a generic status line.
func normalizeStatusError(endpoint string, status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("server error: %d %s", status, http.StatusText(status)),
		Endpoint:   endpoint,
	}
	var payload serverError
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}
