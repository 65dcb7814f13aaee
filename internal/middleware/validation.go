package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/validation"
)

// SetupValidator registers the custom binding rules on gin's validator
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	return validation.RegisterCustomRules(v)
}

// ValidationDetails turns a binding error into a field -> message map
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	details := make(map[string]string, len(verrs))
	for _, e := range verrs {
		details[e.Field()] = formatValidationError(e)
	}
	return details
}

// RespondBindingError answers 400 with the binding error details
func RespondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(ValidationDetails(err)),
	))
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "clocktime":
		return e.Field() + " must be a HH:MM time"
	case "datetime":
		return e.Field() + " must match " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
