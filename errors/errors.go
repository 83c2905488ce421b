// Package errors provides standardized error handling patterns for SurfaceKit components.
// It includes error classification, standard error variables, and helper functions
// for consistent error wrapping and classification across the system.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or configuration
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Stream parsing errors
	ErrMalformedLine      = errors.New("malformed message line")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidData        = errors.New("invalid data format")
	ErrParsingFailed      = errors.New("parsing failed")

	// Surface and tree errors
	ErrSurfaceNotFound = errors.New("surface not found")
	ErrTargetNotFound  = errors.New("target component not found")
	ErrNotContainer    = errors.New("component is not a container")
	ErrRootRemoval     = errors.New("root component cannot be removed")
	ErrDuplicateID     = errors.New("duplicate component id")
	ErrUnknownKind     = errors.New("unknown component kind")
	ErrInvalidComponent = errors.New("invalid component definition")

	// Data model errors
	ErrInvalidPath = errors.New("invalid data model path")

	// Binding errors
	ErrUnknownFunction = errors.New("unknown function")

	// Protocol errors
	ErrUnrecognizedPayload = errors.New("unrecognized payload shape")
	ErrUnknownProtocol     = errors.New("unknown protocol")
	ErrNoProtocol          = errors.New("no protocol established")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsTransient checks if an error is transient and may be retried by the host
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	return false
}

// IsFatal checks if an error is fatal and should stop processing
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// IsInvalid checks if an error is due to invalid input
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrMalformedLine) ||
		errors.Is(err, ErrUnknownMessageType) ||
		errors.Is(err, ErrInvalidData) ||
		errors.Is(err, ErrParsingFailed) ||
		errors.Is(err, ErrUnrecognizedPayload) ||
		errors.Is(err, ErrUnknownProtocol) ||
		errors.Is(err, ErrInvalidPath) ||
		errors.Is(err, ErrInvalidComponent) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, ErrDuplicateID)
}

// Classify returns the error class for an error. Unclassified errors
// default to invalid input, the dominant failure mode of a parser.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorInvalid
	}

	if IsFatal(err) {
		return ErrorFatal
	}
	if IsTransient(err) {
		return ErrorTransient
	}

	return ErrorInvalid
}

// newClassified creates a new classified error
// This is an internal helper - use WrapTransient(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}
