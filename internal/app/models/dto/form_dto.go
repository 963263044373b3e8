package dto

import (
	"time"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/validators"
	"github.com/yigit/regwizard/internal/app/wizard"
)

// EditFieldRequest carries a single field edit
type EditFieldRequest struct {
	Field string `json:"field" binding:"required,max=64"`
	Value string `json:"value" binding:"max=4096"`
}

// ValidateRequest is a standalone registration record to check
type ValidateRequest struct {
	Email           string `json:"email" binding:"max=4096"`
	Name            string `json:"name" binding:"max=4096"`
	StudentID       string `json:"studentId" binding:"max=4096"`
	Year            string `json:"year" binding:"max=4096"`
	Password        string `json:"password" binding:"max=4096"`
	ConfirmPassword string `json:"confirmPassword" binding:"max=4096"`
}

// ToModel converts the request into a registration submission
func (r ValidateRequest) ToModel() models.RegistrationSubmission {
	return models.RegistrationSubmission{
		Email:           r.Email,
		Name:            r.Name,
		StudentID:       r.StudentID,
		Year:            r.Year,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

// ValidateResponse reports per-field validation results
type ValidateResponse struct {
	Valid  bool                                  `json:"valid"`
	Fields map[models.Field]validators.FieldResult `json:"fields"`
}

// NewValidateResponse builds a ValidateResponse from a schema result
func NewValidateResponse(res validators.Result) ValidateResponse {
	return ValidateResponse{Valid: res.Valid(), Fields: res}
}

// SessionResponse is the client view of a form session. Password values are never echoed.
type SessionResponse struct {
	ID           string                  `json:"id"`
	Token        string                  `json:"token,omitempty"`
	ExpiresAt    *time.Time              `json:"expiresAt,omitempty"`
	Step         models.Step             `json:"step"`
	StepName     string                  `json:"stepName"`
	Values       map[models.Field]string `json:"values"`
	Touched      map[models.Field]bool   `json:"touched"`
	Errors       map[models.Field]string `json:"errors"`
	Submitted    bool                    `json:"submitted"`
	Notification *models.Notification    `json:"notification,omitempty"`
}

// NewSessionResponse builds the client view of a session
func NewSessionResponse(s *wizard.Session) SessionResponse {
	values := make(map[models.Field]string, len(models.AllFields))
	for _, f := range models.AllFields {
		if f.IsSecret() {
			continue
		}
		values[f] = s.Record.Get(f)
	}

	touched := make(map[models.Field]bool, len(s.Touched))
	for f, t := range s.Touched {
		touched[f] = t
	}
	errs := make(map[models.Field]string, len(s.Errors))
	for f, m := range s.Errors {
		errs[f] = m
	}

	return SessionResponse{
		ID:           s.ID.String(),
		Step:         s.Step,
		StepName:     s.Step.String(),
		Values:       values,
		Touched:      touched,
		Errors:       errs,
		Submitted:    s.Submitted,
		Notification: s.Notice,
	}
}

// EditFieldResponse reports the schema verdict for an edited field.
// Session.Errors holds the inline messages currently on display.
type EditFieldResponse struct {
	Field   models.Field           `json:"field"`
	Result  validators.FieldResult `json:"result"`
	Session SessionResponse        `json:"session"`
}

// NextResponse reports a Next attempt
type NextResponse struct {
	Advanced bool                                    `json:"advanced"`
	Fields   map[models.Field]validators.FieldResult `json:"fields"`
	Session  SessionResponse                         `json:"session"`
}

// SubmitResponse reports a Submit attempt; Submission is set only on success
type SubmitResponse struct {
	Outcome      models.SubmissionOutcome                `json:"outcome"`
	Fields       map[models.Field]validators.FieldResult `json:"fields"`
	Notification *models.Notification                    `json:"notification,omitempty"`
	Submission   *models.RegistrationSubmission          `json:"submission,omitempty"`
	Session      SessionResponse                         `json:"session"`
}
