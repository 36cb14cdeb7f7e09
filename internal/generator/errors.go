package generator

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("generator is not configured")
	ErrTimeout          = errors.New("run did not finish in time")
	ErrGenerationFailed = errors.New("run did not complete")
	ErrEmptyResponse    = errors.New("no assistant response")
)

// UpstreamError is a failed call to the language model service. StatusCode is
// zero for transport failures.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// GenerationError is the single error type callers see. The specific cause
// is kept for logging and exposed via Reason and errors.Is/As.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Reason is a short, stable code for the cause.
func (e *GenerationError) Reason() string {
	return reasonOf(e.Err)
}

func reasonOf(err error) string {
	var up *UpstreamError
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrGenerationFailed):
		return "failed"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &up):
		return "upstream"
	default:
		return "unknown"
	}
}
