// Package wizard implements the two-step registration form controller.
// A Session is owned by a single browser; callers serialise access to it.
package wizard

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/validators"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

// MismatchTitle is the notification shown when the passwords differ
const MismatchTitle = "Passwords do not match"

// Session is the state of one form: the record being filled, which
// fields have been edited, the inline messages on display and the step.
type Session struct {
	ID        uuid.UUID
	Record    models.RegistrationSubmission
	Touched   map[models.Field]bool
	Errors    map[models.Field]string
	Step      models.Step
	Submitted bool
	Notice    *models.Notification
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextResult reports the outcome of a Next attempt
type NextResult struct {
	Advanced bool
	Fields   validators.Result
}

// SubmitResult reports the outcome of a Submit attempt
type SubmitResult struct {
	Outcome      models.SubmissionOutcome
	Fields       validators.Result
	Notification *models.Notification
	Submission   *models.RegistrationSubmission
}

// NewSession returns a fresh session on the details step with empty values
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Touched:   make(map[models.Field]bool),
		Errors:    make(map[models.Field]string),
		Step:      models.StepDetails,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Edit records a user edit of a field, marks it touched and returns the
// schema verdict for the new value. Once a submit has been attempted the
// inline message follows every edit; before that a message on display
// stays as it was until the next trigger.
func (s *Session) Edit(field models.Field, value string, now time.Time) (validators.FieldResult, error) {
	if _, ok := validators.Schema[field]; !ok {
		return validators.FieldResult{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownField, field)
	}

	s.Record.Set(field, value)
	s.Touched[field] = true
	s.Notice = nil
	s.UpdatedAt = now

	res := validators.ValidateField(field, value)
	if s.Submitted {
		s.setError(field, res)
	}
	return res, nil
}

// Next re-validates the details fields and moves to the password step
// when every one of them is both touched and valid.
func (s *Session) Next(now time.Time) (NextResult, error) {
	if s.Step != models.StepDetails {
		return NextResult{}, fmt.Errorf("%w: next from step %s", apperrors.ErrInvalidStep, s.Step)
	}
	s.UpdatedAt = now
	s.Notice = nil

	res := validators.ValidateFields(s.Record, models.StepZeroFields...)
	for f, fr := range res {
		s.setError(f, fr)
	}

	for _, f := range models.StepZeroFields {
		if !s.Touched[f] || !res[f].Valid {
			return NextResult{Advanced: false, Fields: res}, nil
		}
	}

	s.Step = models.StepPassword
	return NextResult{Advanced: true, Fields: res}, nil
}

// Back returns to the details step without validating or clearing anything
func (s *Session) Back(now time.Time) error {
	if s.Step != models.StepPassword {
		return fmt.Errorf("%w: back from step %s", apperrors.ErrInvalidStep, s.Step)
	}
	s.Step = models.StepDetails
	s.Notice = nil
	s.UpdatedAt = now
	return nil
}

// Submit validates the whole record and then checks that the passwords match.
// Neither an invalid record nor a mismatch changes the step or the values.
func (s *Session) Submit(now time.Time) (SubmitResult, error) {
	if s.Step != models.StepPassword {
		return SubmitResult{}, fmt.Errorf("%w: submit from step %s", apperrors.ErrInvalidStep, s.Step)
	}
	s.Submitted = true
	s.Notice = nil
	s.UpdatedAt = now

	res := validators.Validate(s.Record)
	for f, fr := range res {
		s.setError(f, fr)
	}
	if !res.Valid() {
		return SubmitResult{Outcome: models.OutcomeInvalid, Fields: res}, nil
	}

	if !s.Record.PasswordsMatch() {
		s.Notice = &models.Notification{
			Title:   MismatchTitle,
			Variant: models.NotificationDestructive,
		}
		return SubmitResult{Outcome: models.OutcomeMismatch, Fields: res, Notification: s.Notice}, nil
	}

	submission := s.Record
	return SubmitResult{Outcome: models.OutcomeSuccess, Fields: res, Submission: &submission}, nil
}

// Reset starts the form over with empty values on the details step
func (s *Session) Reset(now time.Time) {
	s.Record = models.RegistrationSubmission{}
	s.Touched = make(map[models.Field]bool)
	s.Errors = make(map[models.Field]string)
	s.Step = models.StepDetails
	s.Submitted = false
	s.Notice = nil
	s.UpdatedAt = now
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	c := *s
	c.Touched = make(map[models.Field]bool, len(s.Touched))
	for k, v := range s.Touched {
		c.Touched[k] = v
	}
	c.Errors = make(map[models.Field]string, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	if s.Notice != nil {
		n := *s.Notice
		c.Notice = &n
	}
	return &c
}

func (s *Session) setError(field models.Field, res validators.FieldResult) {
	if res.Valid {
		delete(s.Errors, field)
		return
	}
	s.Errors[field] = res.Message
}
