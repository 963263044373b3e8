package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/validators"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

type SessionSuite struct {
	suite.Suite
	now time.Time
	s   *Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.s = NewSession(s.now)
}

func (s *SessionSuite) edit(field models.Field, value string) {
	_, err := s.s.Edit(field, value, s.now)
	s.Require().NoError(err)
}

func (s *SessionSuite) fillDetails() {
	s.edit(models.FieldName, "Alice")
	s.edit(models.FieldEmail, "alice@uni.edu")
	s.edit(models.FieldStudentID, "1234567")
	s.edit(models.FieldYear, "2014")
}

func (s *SessionSuite) toPasswordStep() {
	s.fillDetails()
	res, err := s.s.Next(s.now)
	s.Require().NoError(err)
	s.Require().True(res.Advanced)
}

func (s *SessionSuite) TestNewSession() {
	s.Equal(models.StepDetails, s.s.Step)
	s.Equal(models.RegistrationSubmission{}, s.s.Record)
	s.Empty(s.s.Touched)
	s.Empty(s.s.Errors)
	s.False(s.s.Submitted)
}

func (s *SessionSuite) TestEdit() {
	s.Run("marks the field touched", func() {
		fr, err := s.s.Edit(models.FieldName, "Al", s.now)
		s.Require().NoError(err)
		s.False(fr.Valid, "verdict reflects the schema")
		s.Equal(validators.NameTooShortMsg, fr.Message)
		s.True(s.s.Touched[models.FieldName])
		s.Equal("Al", s.s.Record.Name)
		s.Empty(s.s.Errors, "no inline message before any trigger")
	})

	s.Run("message on display kept until the next trigger", func() {
		s.SetupTest()
		s.edit(models.FieldName, "Al")
		_, err := s.s.Next(s.now)
		s.Require().NoError(err)
		s.Require().Contains(s.s.Errors, models.FieldName)

		fr, err := s.s.Edit(models.FieldName, "Alice", s.now)
		s.Require().NoError(err)
		s.True(fr.Valid)
		s.Equal(validators.NameTooShortMsg, s.s.Errors[models.FieldName])
	})

	s.Run("unknown field rejected", func() {
		_, err := s.s.Edit(models.Field("nickname"), "x", s.now)
		s.ErrorIs(err, apperrors.ErrUnknownField)
	})

	s.Run("editing back to empty stays touched", func() {
		s.edit(models.FieldEmail, "a")
		s.edit(models.FieldEmail, "")
		s.True(s.s.Touched[models.FieldEmail])
	})
}

func (s *SessionSuite) TestNext() {
	s.Run("advances when all details are touched and valid", func() {
		s.SetupTest()
		s.toPasswordStep()
		s.Equal(models.StepPassword, s.s.Step)
		s.Empty(s.s.Errors)
	})

	s.Run("short name blocks the transition", func() {
		s.SetupTest()
		s.fillDetails()
		s.edit(models.FieldName, "Al")

		res, err := s.s.Next(s.now)
		s.Require().NoError(err)
		s.False(res.Advanced)
		s.Equal(models.StepDetails, s.s.Step)
		s.Equal(validators.NameTooShortMsg, s.s.Errors[models.FieldName])
		s.NotContains(s.s.Errors, models.FieldEmail)
	})

	s.Run("untouched field blocks the transition even if valid", func() {
		s.SetupTest()
		s.s.Record = models.RegistrationSubmission{
			Name: "Alice", Email: "alice@uni.edu", StudentID: "1234567", Year: "2014",
		}
		s.edit(models.FieldName, "Alice")
		s.edit(models.FieldEmail, "alice@uni.edu")
		s.edit(models.FieldStudentID, "1234567")

		res, err := s.s.Next(s.now)
		s.Require().NoError(err)
		s.False(res.Advanced)
		s.True(res.Fields.Valid())
		s.Equal(models.StepDetails, s.s.Step)
	})

	s.Run("inline messages clear once fixed", func() {
		s.SetupTest()
		s.fillDetails()
		s.edit(models.FieldStudentID, "abcdefg")
		res, err := s.s.Next(s.now)
		s.Require().NoError(err)
		s.False(res.Advanced)
		s.Equal(validators.StudentIDNumberMsg, s.s.Errors[models.FieldStudentID])

		s.edit(models.FieldStudentID, "7654321")
		s.Contains(s.s.Errors, models.FieldStudentID, "message stays until the next trigger")

		res, err = s.s.Next(s.now)
		s.Require().NoError(err)
		s.True(res.Advanced)
		s.Empty(s.s.Errors)
	})

	s.Run("not allowed from the password step", func() {
		s.SetupTest()
		s.toPasswordStep()
		_, err := s.s.Next(s.now)
		s.ErrorIs(err, apperrors.ErrInvalidStep)
	})
}

func (s *SessionSuite) TestBack() {
	s.Run("keeps values of both steps", func() {
		s.SetupTest()
		s.toPasswordStep()
		s.edit(models.FieldPassword, "secret1")
		s.edit(models.FieldConfirmPassword, "secret")

		s.Require().NoError(s.s.Back(s.now))
		s.Equal(models.StepDetails, s.s.Step)
		s.Equal("Alice", s.s.Record.Name)
		s.Equal("secret1", s.s.Record.Password)
		s.Equal("secret", s.s.Record.ConfirmPassword)

		res, err := s.s.Next(s.now)
		s.Require().NoError(err)
		s.True(res.Advanced)
		s.Equal("secret1", s.s.Record.Password)
	})

	s.Run("not allowed from the details step", func() {
		s.SetupTest()
		s.ErrorIs(s.s.Back(s.now), apperrors.ErrInvalidStep)
	})
}

func (s *SessionSuite) TestSubmit() {
	s.Run("matching passwords succeed", func() {
		s.SetupTest()
		s.toPasswordStep()
		s.edit(models.FieldPassword, "secret1")
		s.edit(models.FieldConfirmPassword, "secret1")

		res, err := s.s.Submit(s.now)
		s.Require().NoError(err)
		s.Equal(models.OutcomeSuccess, res.Outcome)
		s.Nil(res.Notification)
		s.Nil(s.s.Notice)
		s.Require().NotNil(res.Submission)
		s.Equal("Alice", res.Submission.Name)
		s.Equal("secret1", res.Submission.Password)
	})

	s.Run("mismatched passwords notify and keep state", func() {
		s.SetupTest()
		s.toPasswordStep()
		s.edit(models.FieldPassword, "secret1")
		s.edit(models.FieldConfirmPassword, "secret2")
		before := s.s.Record

		res, err := s.s.Submit(s.now)
		s.Require().NoError(err)
		s.Equal(models.OutcomeMismatch, res.Outcome)
		s.Require().NotNil(res.Notification)
		s.Equal(MismatchTitle, res.Notification.Title)
		s.Equal(models.NotificationDestructive, res.Notification.Variant)
		s.Nil(res.Submission)
		s.Equal(models.StepPassword, s.s.Step)
		s.Equal(before, s.s.Record)
		s.Empty(s.s.Errors, "mismatch is not attached to a field")
	})

	s.Run("invalid record aborts with inline messages", func() {
		s.SetupTest()
		s.toPasswordStep()
		s.edit(models.FieldPassword, "123")
		s.edit(models.FieldConfirmPassword, "123")

		res, err := s.s.Submit(s.now)
		s.Require().NoError(err)
		s.Equal(models.OutcomeInvalid, res.Outcome)
		s.Nil(res.Notification)
		s.Equal(models.StepPassword, s.s.Step)
		s.Contains(s.s.Errors, models.FieldPassword)
		s.Contains(s.s.Errors, models.FieldConfirmPassword)
	})

	s.Run("edits re-validate after a submit attempt", func() {
		s.SetupTest()
		s.toPasswordStep()
		s.edit(models.FieldPassword, "123")
		_, err := s.s.Submit(s.now)
		s.Require().NoError(err)
		s.Contains(s.s.Errors, models.FieldPassword)

		fr, err := s.s.Edit(models.FieldPassword, "longer-secret", s.now)
		s.Require().NoError(err)
		s.True(fr.Valid)
		s.NotContains(s.s.Errors, models.FieldPassword)
	})

	s.Run("not allowed from the details step", func() {
		s.SetupTest()
		_, err := s.s.Submit(s.now)
		s.ErrorIs(err, apperrors.ErrInvalidStep)
	})
}

func (s *SessionSuite) TestReset() {
	s.toPasswordStep()
	s.edit(models.FieldPassword, "secret1")
	s.s.Reset(s.now)

	s.Equal(models.StepDetails, s.s.Step)
	s.Equal(models.RegistrationSubmission{}, s.s.Record)
	s.Empty(s.s.Touched)
}

func (s *SessionSuite) TestClone() {
	s.fillDetails()
	c := s.s.Clone()
	c.Touched[models.FieldPassword] = true
	c.Record.Name = "Bob"

	s.False(s.s.Touched[models.FieldPassword])
	s.Equal("Alice", s.s.Record.Name)
	s.Equal(s.s.ID, c.ID)
}
