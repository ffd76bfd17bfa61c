package model

import (
	"fmt"
	"strings"
)

// ValidationError reports one input-contract violation by field path.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects all violations found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e ValidationErrors) add(path, message string) ValidationErrors {
	return append(e, ValidationError{Path: path, Message: message})
}

// MalformedInputError indicates the request body could not be parsed at
// all, as opposed to parsing fine and failing validation.
type MalformedInputError struct {
	Cause error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.Cause)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// GenerationError wraps an unexpected fault in computation, layout,
// mapping or embedding. Generation is all-or-nothing: callers receive
// either complete output bytes or this error, never both.
type GenerationError struct {
	Stage string
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("invoice generation failed [%s]: %v", e.Stage, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError creates a new generation error for the given stage.
func NewGenerationError(stage string, cause error) *GenerationError {
	return &GenerationError{Stage: stage, Cause: cause}
}
