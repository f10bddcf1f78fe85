package core

import (
	"errors"
	"fmt"
)

// Error kinds for the processing pipeline. Callers always receive either a
// complete result or one of these; partially anonymized text is never returned.
var (
	// ErrConfiguration marks invalid configuration caught at construction time
	ErrConfiguration = errors.New("configuration error")

	// ErrAnalysis marks a detection backend failure, fatal for the whole call
	ErrAnalysis = errors.New("analysis error")

	// ErrProcessing marks fake-value generation, cache serialization, or
	// assembly invariant failures, fatal for the call
	ErrProcessing = errors.New("processing error")
)

// PipelineError carries a typed failure with diagnostic context. Context
// values must never contain original PII text.
type PipelineError struct {
	Kind    error
	Message string
	Context map[string]interface{}
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains
func (e *PipelineError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches against the error kind as well as the cause
func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.Kind, target) || errors.Is(e.Err, target)
}

// NewConfigurationError builds a configuration failure
func NewConfigurationError(message string, context map[string]interface{}) error {
	return &PipelineError{Kind: ErrConfiguration, Message: message, Context: context}
}

// NewAnalysisError builds a detection backend failure
func NewAnalysisError(message string, err error) error {
	return &PipelineError{Kind: ErrAnalysis, Message: message, Err: err}
}

// NewProcessingError builds a processing failure
func NewProcessingError(message string, err error) error {
	return &PipelineError{Kind: ErrProcessing, Message: message, Err: err}
}
