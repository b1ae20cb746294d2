// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/bookings/internal/errors"
)

var (
	// identifierRegex matches safe external identifiers such as event and
	// booking ids (e.g., "evt-1", "booking-6f1c...").
	identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]{0,127}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Identifier validates external identifiers (event_id, booking_id). String
// rules skip empty values; pair with validation.Required where the field is
// mandatory.
var Identifier = validation.NewStringRuleWithError(
	func(s string) bool {
		return identifierRegex.MatchString(s)
	},
	validation.NewError(
		"validation_identifier_format",
		"must contain only letters, digits, '.', '_' or '-' and be at most 128 characters",
	),
)
