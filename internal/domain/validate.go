package domain

import (
	"github.com/asaskevich/govalidator"

	dErrors "onboard/pkg/domain-errors"
)

// ValidatePhoneNumber enforces the entry format rule: exactly 10 digits with
// a leading zero. The directory is never consulted with anything else.
func ValidatePhoneNumber(raw string) error {
	if len(raw) != 10 {
		return dErrors.New(dErrors.CodeInvalidInput, "phone number must be exactly 10 digits")
	}
	if raw[0] != '0' {
		return dErrors.New(dErrors.CodeInvalidInput, "phone number must start with 0")
	}
	if !govalidator.IsNumeric(raw) {
		return dErrors.New(dErrors.CodeInvalidInput, "phone number must contain digits only")
	}
	return nil
}

// ValidateEmail checks a profile email against a simple local@domain.tld rule.
// Empty is allowed upstream (the email step may be skipped); callers decide.
func ValidateEmail(email string) error {
	if !govalidator.StringLength(email, "3", "255") || !govalidator.IsEmail(email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	return nil
}
