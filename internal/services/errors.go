package services

import "fmt"

// ValidationError is a client-caused failure; nothing was sent upstream.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}

// GenerationError wraps an upstream or transport failure. Its cause is for
// logs only and must not reach the caller.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("story generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
