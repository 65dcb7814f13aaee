package enums

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	ErrorCodeInvalidCredentials   ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken         ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken         ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized         ErrorCode = "AUTH_008"
	ErrorCodeInvalidReporterKey   ErrorCode = "AUTH_009"
	ErrorCodeResourceNotFound     ErrorCode = "RES_001"
	ErrorCodeConflict             ErrorCode = "RES_004"
	ErrorCodeValidationFailed     ErrorCode = "VAL_001"
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
	ErrorCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrorCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	ErrorSeverityInfo    ErrorSeverity = "INFO"
	ErrorSeverityWarning ErrorSeverity = "WARNING"
	ErrorSeverityError   ErrorSeverity = "ERROR"
)
