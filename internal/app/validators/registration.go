// Package validators holds the registration form schema.
package validators

import (
	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/pkg/validation"
)

// Field length bounds
const (
	NameMinLength      = 3
	NameMaxLength      = 255
	StudentIDLength    = 7
	YearMinLength      = 2
	YearMaxLength      = 10
	PasswordMinLength  = 6
	PasswordMaxLength  = 100
	NameTooShortMsg    = "Your name is too short!"
	StudentIDNumberMsg = "Student ID must be a number"
)

// FieldResult is the validation verdict for one field
type FieldResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Result maps each validated field to its verdict
type Result map[models.Field]FieldResult

// Valid reports whether every field in the result passed
func (r Result) Valid() bool {
	for _, fr := range r {
		if !fr.Valid {
			return false
		}
	}
	return true
}

// Messages returns the inline messages of the invalid fields
func (r Result) Messages() map[models.Field]string {
	out := make(map[models.Field]string)
	for f, fr := range r {
		if !fr.Valid {
			out[f] = fr.Message
		}
	}
	return out
}

// Schema is the per-field rule table for a registration submission
var Schema = map[models.Field]*validation.StringValidation{
	models.FieldEmail: validation.NewStringValidation().
		WithEmail(),
	models.FieldName: validation.NewStringValidation().
		WithMinLength(NameMinLength, NameTooShortMsg).
		WithMaxLength(NameMaxLength),
	models.FieldStudentID: validation.NewStringValidation().
		WithMinLength(StudentIDLength).
		WithMaxLength(StudentIDLength).
		WithNumeric(StudentIDNumberMsg),
	models.FieldYear: validation.NewStringValidation().
		WithMinLength(YearMinLength).
		WithMaxLength(YearMaxLength),
	models.FieldPassword: validation.NewStringValidation().
		WithMinLength(PasswordMinLength).
		WithMaxLength(PasswordMaxLength),
	models.FieldConfirmPassword: validation.NewStringValidation().
		WithMinLength(PasswordMinLength).
		WithMaxLength(PasswordMaxLength),
}

// ValidateField checks a single value against its rule
func ValidateField(field models.Field, value string) FieldResult {
	rule, ok := Schema[field]
	if !ok {
		return FieldResult{Valid: true}
	}
	valid, msg := rule.Validate(value)
	return FieldResult{Valid: valid, Message: msg}
}

// ValidateFields checks the given fields of a record
func ValidateFields(record models.RegistrationSubmission, fields ...models.Field) Result {
	res := make(Result, len(fields))
	for _, f := range fields {
		res[f] = ValidateField(f, record.Get(f))
	}
	return res
}

// Validate checks every field of a record
func Validate(record models.RegistrationSubmission) Result {
	return ValidateFields(record, models.AllFields...)
}
