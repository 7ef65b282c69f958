// Package validation provides custom validators for the application
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Password bounds enforced by the "password" tag. The minimum counts
// characters, the maximum counts bytes since bcrypt only accepts 72.
const (
	PasswordMinLength = 5
	PasswordMaxBytes  = 72
)

var once sync.Once

// Initialize registers all custom validators. It is safe to call more than once.
func Initialize() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := Register(v); err != nil {
				panic(err)
			}
		}
	})
}

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
		return err
	}
	return v.RegisterValidation("password", validatePassword)
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

func validatePassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return utf8.RuneCountInString(value) >= PasswordMinLength && len(value) <= PasswordMaxBytes
}

// Message turns a binding error into the code reported to clients along with
// the offending field, e.g. ("email", "EMAIL_IS_NOT_VALID").
func Message(err error) (field, msg string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", "MALFORMED_REQUEST"
	}

	fe := verrs[0]
	field = strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field, "MISSING"
	case "email":
		return field, "EMAIL_IS_NOT_VALID"
	case "nospaces":
		return field, "IS_EMPTY"
	case "password":
		if value, ok := fe.Value().(string); ok && len(value) > PasswordMaxBytes {
			return field, fmt.Sprintf("PASSWORD_TOO_LONG_MAX_%d", PasswordMaxBytes)
		}
		return field, fmt.Sprintf("PASSWORD_TOO_SHORT_MIN_%d", PasswordMinLength)
	case "min":
		return field, "TOO_SHORT_MIN_" + fe.Param()
	case "max":
		return field, "TOO_LONG_MAX_" + fe.Param()
	default:
		return field, "NOT_VALID"
	}
}
