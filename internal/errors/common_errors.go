package errors

import (
	"fmt"
)

// Sentinels for errors.Is checks. They carry no message and match any
// AppError of the same type.
var (
	ErrInputFormat  = &AppError{Type: ErrTypeInputFormat}
	ErrMissingEvent = &AppError{Type: ErrTypeMissingEvent}
	ErrMissingField = &AppError{Type: ErrTypeMissingField}
	ErrIO           = &AppError{Type: ErrTypeIO}
	ErrConfig       = &AppError{Type: ErrTypeConfig}
)

// NewInputFormatError reports a document that does not have the expected shape
func NewInputFormatError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInputFormat, message, cause)
}

// NewMissingEventError reports a shipment without the given lifecycle event
func NewMissingEventError(eventType string) *AppError {
	return NewAppError(ErrTypeMissingEvent, fmt.Sprintf("no %s event found", eventType), nil).
		WithContext("event_type", eventType)
}

// NewMissingFieldError reports an absent key in a shipment record
func NewMissingFieldError(field string) *AppError {
	return NewAppError(ErrTypeMissingField, fmt.Sprintf("missing field %s", field), nil).
		WithContext("field", field)
}

// NewIOError creates a file-system error for the given operation and path
func NewIOError(operation, path string, cause error) *AppError {
	return NewAppError(ErrTypeIO, fmt.Sprintf("failed to %s %s", operation, path), cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}
