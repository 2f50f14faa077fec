package model

import "fmt"

// ValidationError represents invalid draft input
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// FinalizeError reports an aborted finalization.
// No partial invoice accompanies it.
type FinalizeError struct {
	Number  string
	Stage   string
	Message string
	Cause   error
}

func (e *FinalizeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("finalize %s failed [%s]: %s (%v)", e.Number, e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("finalize %s failed [%s]: %s", e.Number, e.Stage, e.Message)
}

func (e *FinalizeError) Unwrap() error {
	return e.Cause
}

// NewFinalizeError creates a new finalize error
func NewFinalizeError(number, stage, message string, cause error) *FinalizeError {
	return &FinalizeError{
		Number:  number,
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}
