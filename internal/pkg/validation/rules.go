package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ClockTimePattern matches 24h "HH:MM" wall-clock times
var ClockTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// RegisterCustomRules adds the help desk tags to a validator instance
func RegisterCustomRules(v *validator.Validate) error {
	return v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		return ClockTimePattern.MatchString(fl.Field().String())
	})
}

// TextField checks a free-text form field after trimming and returns a
// message when it is empty or longer than max characters.
func TextField(name, value string, max int) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return name + " is required", false
	}
	if utf8.RuneCountInString(trimmed) > max {
		return name + " must be at most " + strconv.Itoa(max) + " characters", false
	}
	return "", true
}
