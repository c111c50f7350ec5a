package services

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable wraps database failures on the progress path.
	// Callers must not treat it as "no data": the UI blocks progress
	// rendering and shows a retry affordance instead.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrAuthRequired marks an operation invoked without a current user.
	// The pipeline treats it as a no-op; the HTTP layer decides whether
	// to redirect.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAIResponseMalformed means every structured-extraction stage
	// failed in a context that strictly requires structured data.
	ErrAIResponseMalformed = errors.New("ai response malformed")

	// ErrRateLimited is the advisory client-side suggestion budget.
	ErrRateLimited = errors.New("rate limited, try again shortly")
)

// AIServiceError is returned when the generative service failed after
// exhausting retries, or returned a non-retryable error. Status and the
// upstream message are preserved verbatim.
type AIServiceError struct {
	Status  int
	Message string
}

func (e *AIServiceError) Error() string {
	return fmt.Sprintf("ai service error (%d): %s", e.Status, e.Message)
}
