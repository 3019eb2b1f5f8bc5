package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports code equality so clones and wraps of a predefined error match it.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrPayloadTooLarge    = New("PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge, "payload too large")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Teacher registration errors, reported in the order the checks run.
var (
	ErrMissingFields     = New("MISSING_FIELDS", http.StatusBadRequest, "Missing required fields")
	ErrNoSubjects        = New("NO_SUBJECTS", http.StatusBadRequest, "At least one subject must be selected")
	ErrIncompleteMapping = New("INCOMPLETE_MAPPING", http.StatusBadRequest, "Please select at least one class for each selected subject")
	ErrNoSections        = New("NO_SECTIONS", http.StatusBadRequest, "At least one section must be selected")
	ErrDuplicateTeacher  = New("DUPLICATE_TEACHER", http.StatusConflict, "Teacher with this email or Aadhaar already exists")
	ErrStorage           = New("STORAGE_ERROR", http.StatusInternalServerError, "failed to store uploaded file")
	ErrPersistence       = New("PERSISTENCE_ERROR", http.StatusInternalServerError, "Error registering teacher")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WrapAs wraps err keeping the code, status and message of the template.
func WrapAs(template *Error, err error) *Error {
	if template == nil {
		return FromError(err)
	}
	return Wrap(err, template.Code, template.Status, template.Message)
}
