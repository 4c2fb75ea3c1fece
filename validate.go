package authflow

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

var (
	reCode      = regexp.MustCompile(`^\d{6}$`)
	rePhone     = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	reHasLetter = regexp.MustCompile(`[A-Za-z]`)
	reHasDigit  = regexp.MustCompile(`[0-9]`)
)

// ValidateFullName requires at least 3 characters after trimming.
func ValidateFullName(name string) error {
	trimmed := strings.TrimSpace(name)
	return validation.Validate(trimmed,
		validation.Required.Error("please enter your full name"),
		validation.Length(3, 0).Error("please enter your full name"),
	)
}

// ValidateEmail applies the usual address shape check.
func ValidateEmail(email string) error {
	return validation.Validate(email,
		validation.Required.Error("please enter a valid email address"),
		is.Email.Error("please enter a valid email address"),
	)
}

// ValidatePassword requires at least 8 characters with a letter and a digit.
func ValidatePassword(password string) error {
	return validation.Validate(password,
		validation.Required.Error("password must be at least 8 characters with letters and numbers"),
		validation.Length(8, 0).Error("password must be at least 8 characters with letters and numbers"),
		validation.Match(reHasLetter).Error("password must be at least 8 characters with letters and numbers"),
		validation.Match(reHasDigit).Error("password must be at least 8 characters with letters and numbers"),
	)
}

// ValidatePhone accepts a loose international shape: at least 10 digits with
// an optional leading +, spaces and hyphens.
func ValidatePhone(phone string) error {
	return validation.Validate(phone,
		validation.Required.Error("please enter a valid phone number"),
		validation.Match(rePhone).Error("please enter a valid phone number"),
	)
}

// ValidateCode requires exactly six digits.
func ValidateCode(code string) error {
	return validation.Validate(code,
		validation.Required.Error("please enter a valid verification code"),
		validation.Match(reCode).Error("please enter a valid verification code"),
	)
}

// NormalizePhone returns the E.164 form when the number parses cleanly, the
// trimmed input otherwise. Loosely shaped numbers still pass the gate; this
// only tidies what it can.
func NormalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	num, err := phonenumbers.Parse(trimmed, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
