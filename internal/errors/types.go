package errors

import "fmt"

// TypedmockError defines the base interface for all generator errors
type TypedmockError interface {
	error
	ErrorCode() ErrorCode
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Fatal before the pipeline starts
	ConfigErrorCode
	PatternErrorCode

	// Recovered locally, reported as warnings
	ResolutionErrorCode
	InspectionErrorCode

	// Fatal mid-pipeline: partial writes would leave an inconsistent artifact set
	EmissionErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ConfigErrorCode:
		return "ConfigError"
	case PatternErrorCode:
		return "PatternError"
	case ResolutionErrorCode:
		return "ResolutionError"
	case InspectionErrorCode:
		return "InspectionError"
	case EmissionErrorCode:
		return "EmissionError"
	default:
		return "UnknownError"
	}
}

// BaseError provides a common implementation of the TypedmockError interface
type BaseError struct {
	Code    ErrorCode // type of error
	Target  string    // pattern, type, or path the error relates to
	Message string    // error message
	Cause   error     // underlying error cause
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Target, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a fatal configuration error
func NewConfigError(path, message string, cause error) *BaseError {
	return &BaseError{Code: ConfigErrorCode, Target: path, Message: message, Cause: cause}
}

// NewPatternError creates an error for a target pattern that cannot be parsed
func NewPatternError(pattern, message string, cause error) *BaseError {
	return &BaseError{Code: PatternErrorCode, Target: pattern, Message: message, Cause: cause}
}

// NewResolutionError creates a recoverable error for a pattern that does not
// resolve to an importable type
func NewResolutionError(pattern, message string, cause error) *BaseError {
	return &BaseError{Code: ResolutionErrorCode, Target: pattern, Message: message, Cause: cause}
}

// NewInspectionError creates a recoverable error for a resolved type that
// cannot be inspected
func NewInspectionError(target, message string, cause error) *BaseError {
	return &BaseError{Code: InspectionErrorCode, Target: target, Message: message, Cause: cause}
}

// NewEmissionError creates a fatal error for a failed artifact write
func NewEmissionError(path, message string, cause error) *BaseError {
	return &BaseError{Code: EmissionErrorCode, Target: path, Message: message, Cause: cause}
}

// CodeOf extracts the error code from any error in the chain, returning
// UnknownErrorCode for foreign errors.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if te, ok := err.(TypedmockError); ok {
			return te.ErrorCode()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return UnknownErrorCode
		}
		err = u.Unwrap()
	}
	return UnknownErrorCode
}

// IsConfigError reports whether err carries a configuration failure
func IsConfigError(err error) bool {
	return CodeOf(err) == ConfigErrorCode
}

// IsEmissionError reports whether err carries an artifact write failure
func IsEmissionError(err error) bool {
	return CodeOf(err) == EmissionErrorCode
}
