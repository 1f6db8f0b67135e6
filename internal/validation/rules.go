// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/legacykeep/user-service/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// phoneRegex accepts international phone numbers with an optional leading plus
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\-\s()]{4,18}$`)

	// languageRegex matches ISO 639-1 style language tags (e.g., "en", "pt-BR")
	languageRegex = regexp.MustCompile(`^[a-z]{2}(-[A-Za-z]{2,4})?$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string contains non-whitespace characters
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "cannot be blank"),
)

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email", "must be a valid email address"),
)

// Phone validates phone number format using regex
var Phone = validation.NewStringRuleWithError(
	func(s string) bool {
		return phoneRegex.MatchString(s)
	},
	validation.NewError("validation_phone", "must be a valid phone number"),
)

// Language validates language tag format using regex
var Language = validation.NewStringRuleWithError(
	func(s string) bool {
		return languageRegex.MatchString(s)
	},
	validation.NewError("validation_language", "must be a valid language tag"),
)
