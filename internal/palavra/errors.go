package palavra

import "errors"

// Sentinel errors used across all layers.
var (
	// ErrEmptyQuery is a local validation failure; no collaborator is contacted.
	ErrEmptyQuery = errors.New("empty query")

	// ErrCredential means the AI service rejected or never received an API key.
	// Callers should prompt for new settings.
	ErrCredential = errors.New("invalid or missing API key")

	// ErrCollaborator is a generic, retryable upstream failure.
	ErrCollaborator = errors.New("AI service request failed")

	// ErrMalformedResponse means the AI service answered with data that does
	// not fit the expected shape.
	ErrMalformedResponse = errors.New("malformed AI service response")

	// ErrBusy is returned when a single-flight resource already has a request
	// outstanding.
	ErrBusy = errors.New("request already in progress")
)
