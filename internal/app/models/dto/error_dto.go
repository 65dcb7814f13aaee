package dto

import (
	"time"

	"github.com/yigit/labdesk/internal/app/models/dto/enums"
)

// ErrorCode and ErrorSeverity are shared with the enums package
type (
	ErrorCode     = enums.ErrorCode
	ErrorSeverity = enums.ErrorSeverity
)

const (
	ErrorCodeInvalidCredentials   = enums.ErrorCodeInvalidCredentials
	ErrorCodeInvalidToken         = enums.ErrorCodeInvalidToken
	ErrorCodeExpiredToken         = enums.ErrorCodeExpiredToken
	ErrorCodeUnauthorized         = enums.ErrorCodeUnauthorized
	ErrorCodeInvalidReporterKey   = enums.ErrorCodeInvalidReporterKey
	ErrorCodeResourceNotFound     = enums.ErrorCodeResourceNotFound
	ErrorCodeConflict             = enums.ErrorCodeConflict
	ErrorCodeValidationFailed     = enums.ErrorCodeValidationFailed
	ErrorCodeInternalServer       = enums.ErrorCodeInternalServer
	ErrorCodeExternalServiceError = enums.ErrorCodeExternalServiceError
	ErrorCodeForbidden            = enums.ErrorCodeForbidden
	ErrorCodeInvalidRequest       = enums.ErrorCodeInvalidRequest
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"RES_001"`
	Message  string        `json:"message" example:"request not found"`
	Field    string        `json:"field,omitempty" example:"location"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: enums.ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
