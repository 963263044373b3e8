package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default messages used when a rule is not given a custom one
const (
	DefaultEmailMessage   = "Invalid email"
	DefaultNumericMessage = "Expected number"
)

var validate = validator.New()

// emailShape narrows validator's RFC 5322 check to ASCII local parts and a
// dotted domain ending in an alphabetic TLD of two or more letters.
var emailShape = regexp.MustCompile(`(?i)^[A-Z0-9_'+\-.]*[A-Z0-9_+\-]@([A-Z0-9][A-Z0-9\-]*\.)+[A-Z]{2,}$`)

// MinLengthMessage is the default message for a failed minimum-length check
func MinLengthMessage(min int) string {
	return fmt.Sprintf("String must contain at least %d character(s)", min)
}

// MaxLengthMessage is the default message for a failed maximum-length check
func MaxLengthMessage(max int) string {
	return fmt.Sprintf("String must contain at most %d character(s)", max)
}

// IsEmail reports whether value is a syntactically valid email address.
// The local part may not start with a dot or contain consecutive dots.
func IsEmail(value string) bool {
	if validate.Var(value, "required,email") != nil {
		return false
	}
	if strings.HasPrefix(value, ".") || strings.Contains(value, "..") {
		return false
	}
	return emailShape.MatchString(value)
}

type check struct {
	ok      func(string) bool
	message string
}

// StringValidation is an ordered list of checks applied to a single string.
// Checks run in the order they were added; the first failure wins.
type StringValidation struct {
	checks []check
}

// NewStringValidation creates an empty string validation
func NewStringValidation() *StringValidation {
	return &StringValidation{}
}

// WithMinLength requires at least min characters
func (v *StringValidation) WithMinLength(min int, message ...string) *StringValidation {
	msg := pick(message, MinLengthMessage(min))
	v.checks = append(v.checks, check{
		ok:      func(s string) bool { return Length(s) >= min },
		message: msg,
	})
	return v
}

// WithMaxLength allows at most max characters
func (v *StringValidation) WithMaxLength(max int, message ...string) *StringValidation {
	msg := pick(message, MaxLengthMessage(max))
	v.checks = append(v.checks, check{
		ok:      func(s string) bool { return Length(s) <= max },
		message: msg,
	})
	return v
}

// WithEmail requires a syntactically valid email address
func (v *StringValidation) WithEmail(message ...string) *StringValidation {
	v.checks = append(v.checks, check{ok: IsEmail, message: pick(message, DefaultEmailMessage)})
	return v
}

// WithNumeric requires the value to convert to a number, see IsNumeric
func (v *StringValidation) WithNumeric(message ...string) *StringValidation {
	v.checks = append(v.checks, check{ok: IsNumeric, message: pick(message, DefaultNumericMessage)})
	return v
}

// WithRefine adds an arbitrary predicate
func (v *StringValidation) WithRefine(ok func(string) bool, message string) *StringValidation {
	v.checks = append(v.checks, check{ok: ok, message: message})
	return v
}

// Validate returns true and an empty message when every check passes,
// otherwise false and the message of the first failing check.
func (v *StringValidation) Validate(value string) (bool, string) {
	for _, c := range v.checks {
		if !c.ok(value) {
			return false, c.message
		}
	}
	return true, ""
}

func pick(custom []string, fallback string) string {
	if len(custom) > 0 && custom[0] != "" {
		return custom[0]
	}
	return fallback
}
