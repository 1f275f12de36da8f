package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryHost      Category = "host"
	CategoryLifecycle Category = "lifecycle"
	CategoryChildren  Category = "children"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// FiberError is a structured error with a code, the fiber it concerns and
// an optional wrapped cause.
type FiberError struct {
	// Code is a unique error identifier (e.g., "F001").
	Code string

	// Category is the error type (host, lifecycle, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Fiber describes the fiber the error was raised for, if any.
	Fiber string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FiberError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Fiber != "" {
		msg += " (" + e.Fiber + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FiberError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *FiberError by code.
func (e *FiberError) Is(target error) bool {
	t, ok := target.(*FiberError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithFiber records the fiber the error concerns.
func (e *FiberError) WithFiber(desc string) *FiberError {
	e.Fiber = desc
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FiberError) WithSuggestion(s string) *FiberError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *FiberError) WithDetail(d string) *FiberError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *FiberError) Wrap(err error) *FiberError {
	e.Wrapped = err
	return e
}

// New creates a FiberError from a registered error code.
func New(code string) *FiberError {
	template, ok := registry[code]
	if !ok {
		return &FiberError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FiberError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new FiberError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FiberError {
	return &FiberError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a FiberError.
func FromError(err error, code string) *FiberError {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FiberError); ok {
		return fe
	}
	return New(code).Wrap(err)
}
