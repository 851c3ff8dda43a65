package llm

import (
	"errors"
	"fmt"
)

// ErrorCode distinguishes operator-relevant failure classes.
type ErrorCode string

const (
	CodeAuth      ErrorCode = "auth"
	CodeTransport ErrorCode = "transport"
	CodeUnknown   ErrorCode = "unknown"
)

// ProviderError is a classified LLM failure. It is the only provider
// failure that surfaces to the end user, and always as a structured
// degraded response rather than a raised error.
type ProviderError struct {
	Code   ErrorCode
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("llm: %s (http %d): %v", e.Code, e.Status, e.Err)
	}
	return fmt.Sprintf("llm: %s: %v", e.Code, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Classify extracts the error code from any error, defaulting to unknown.
func Classify(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}
