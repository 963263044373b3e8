package models

// Field names a single input of the registration form
type Field string

// Registration form fields, in display order
const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldStudentID       Field = "studentId"
	FieldYear            Field = "year"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
)

// AllFields lists every field of a registration submission
var AllFields = []Field{
	FieldName,
	FieldEmail,
	FieldStudentID,
	FieldYear,
	FieldPassword,
	FieldConfirmPassword,
}

// StepZeroFields are collected on the details step and gate the Next transition
var StepZeroFields = []Field{FieldName, FieldEmail, FieldStudentID, FieldYear}

// StepOneFields are collected on the password step
var StepOneFields = []Field{FieldPassword, FieldConfirmPassword}

// ParseField converts a raw key to a Field
func ParseField(s string) (Field, bool) {
	for _, f := range AllFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// IsSecret reports whether the field holds a password
func (f Field) IsSecret() bool {
	return f == FieldPassword || f == FieldConfirmPassword
}

// RegistrationSubmission is the record a form session collects
type RegistrationSubmission struct {
	Email           string `json:"email" yaml:"email" form:"email"`
	Name            string `json:"name" yaml:"name" form:"name"`
	StudentID       string `json:"studentId" yaml:"studentId" form:"studentId"`
	Year            string `json:"year" yaml:"year" form:"year"`
	Password        string `json:"password" yaml:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" yaml:"confirmPassword" form:"confirmPassword"`
}

// Get returns the value of a field
func (r *RegistrationSubmission) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldStudentID:
		return r.StudentID
	case FieldYear:
		return r.Year
	case FieldPassword:
		return r.Password
	case FieldConfirmPassword:
		return r.ConfirmPassword
	}
	return ""
}

// Set assigns the value of a field. Unknown fields are ignored.
func (r *RegistrationSubmission) Set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldStudentID:
		r.StudentID = value
	case FieldYear:
		r.Year = value
	case FieldPassword:
		r.Password = value
	case FieldConfirmPassword:
		r.ConfirmPassword = value
	}
}

// PasswordsMatch reports whether the two password fields are equal
func (r *RegistrationSubmission) PasswordsMatch() bool {
	return r.Password == r.ConfirmPassword
}
