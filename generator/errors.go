package generator

import (
	"fmt"

	"wahoo2garmin/workout"
)

// TransportError is a fatal model-request failure (network, auth, malformed
// response). It aborts the conversion immediately and is never retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "model request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimitError is a fatal rate-limit response from the model provider,
// kept distinct from TransportError so callers can choose a long backoff
// instead of retrying.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return "model rate limited: " + e.Err.Error()
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ExhaustedError reports that every attempt in the retry budget failed
// validation. Only the most recent diagnostic is kept.
type ExhaustedError struct {
	Attempts int
	LastErr  *workout.ValidationError
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts, last error: %s", e.Attempts, e.LastErr.Error())
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }
