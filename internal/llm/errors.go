package llm

import (
	"fmt"
	"net/http"

	"github.com/f3rmion/palavra/internal/palavra"
)

// APIError is a non-2xx answer from the AI service.
type APIError struct {
	StatusCode int
	Status     string
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Reason != "" {
		return fmt.Sprintf("AI service error %d (%s): %s", e.StatusCode, e.Reason, msg)
	}
	return fmt.Sprintf("AI service error %d: %s", e.StatusCode, msg)
}

// Unwrap classifies the error as a credential or a generic upstream failure.
func (e *APIError) Unwrap() error {
	if e.IsCredential() {
		return palavra.ErrCredential
	}
	return palavra.ErrCollaborator
}

// IsCredential reports whether the service rejected the API key.
func (e *APIError) IsCredential() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return e.Reason == "API_KEY_INVALID" || e.Reason == "API_KEY_EXPIRED"
}
