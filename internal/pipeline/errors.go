package pipeline

import "fmt"

// GenerationError means the generative model raised or returned nothing
// usable: no document can be produced at all.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("newsletter generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ParseError means the normalizer exhausted its repair attempts on the
// model's output. The pipeline treats it like GenerationError; the distinct
// type exists for diagnostics.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("newsletter output could not be parsed: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
