package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNoChoices is returned when a completion response has no choices.
	ErrNoChoices = errors.New("no choices returned")
	// ErrMalformedFrame is returned when a stream frame is neither a delta nor an error.
	ErrMalformedFrame = errors.New("malformed stream frame")
)

// APIError is an error reported by the OpenAI API, either as a non-2xx
// response body or as a frame inside a stream.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}

// Error returns the server's message unchanged so it can be shown to the user.
func (e *APIError) Error() string {
	return e.Message
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// parseAPIError builds an APIError from a non-2xx response.
func parseAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		env.Error.StatusCode = resp.StatusCode
		return env.Error
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("bad status %d: %s", resp.StatusCode, msg),
	}
}
