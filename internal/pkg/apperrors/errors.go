package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// ErrPermissionDenied means the actor has no rights over the target entity
var ErrPermissionDenied = errors.New("permission denied")

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// ErrUpstream is returned when an external collaborator (roster, mail) fails
var ErrUpstream = errors.New("upstream service failed")

// Help desk errors
var (
	ErrCourseNotFound      = NewResourceNotFoundError("course not found")
	ErrRequestNotFound     = NewResourceNotFoundError("request not found")
	ErrUserNotFound        = NewResourceNotFoundError("user not found")
	ErrStudentNotFound     = NewResourceNotFoundError("student not found")
	ErrTANotFound          = NewResourceNotFoundError("TA not found")
	ErrNoActiveDuty        = NewResourceNotFoundError("no active office hour session")
	ErrAlreadyOnDuty       = NewConflictError("TA already has an active office hour session")
	ErrRequestClosed       = NewConflictError("request has timed out and can no longer be resolved")
	ErrNotTA               = NewForbiddenError("user is not an active TA")
	ErrNotAssignedToCourse = NewForbiddenError("TA is not assigned to this course")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying per-field messages
func NewValidationError(message string, fields map[string]string) error {
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: details,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// Message returns the user-facing message of err if it carries one
func Message(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}

// Details returns the structured details attached to err, if any
func Details(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
