package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/repositories"
	"github.com/yigit/regwizard/internal/metrics"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
	"github.com/yigit/regwizard/internal/pkg/auth"
)

type FormServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *repositories.SessionRepository
	metrics *metrics.Metrics
	logs    *bytes.Buffer
	svc     *FormService
	now     time.Time
}

func TestFormServiceSuite(t *testing.T) {
	suite.Run(t, new(FormServiceSuite))
}

func (s *FormServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repositories.NewSessionRepository()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	s.now = time.Now()

	tokens := auth.NewTokenService(auth.TokenConfig{
		SecretKey:   "secret",
		TTL:         time.Minute,
		TokenIssuer: "test",
		Clock:       func() time.Time { return s.now },
	})
	s.svc = NewFormService(s.repo, tokens, s.metrics, zerolog.New(s.logs))
	s.svc.now = func() time.Time { return s.now }
}

func (s *FormServiceSuite) startFilled(password, confirm string) *IssuedSession {
	started, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)
	id := started.Session.ID

	_, err = s.svc.EditMany(s.ctx, id, map[models.Field]string{
		models.FieldName:      "Alice",
		models.FieldEmail:     "alice@uni.edu",
		models.FieldStudentID: "1234567",
		models.FieldYear:      "2015",
	})
	s.Require().NoError(err)

	_, res, err := s.svc.Next(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(res.Advanced)

	_, err = s.svc.EditMany(s.ctx, id, map[models.Field]string{
		models.FieldPassword:        password,
		models.FieldConfirmPassword: confirm,
	})
	s.Require().NoError(err)
	return started
}

func (s *FormServiceSuite) TestStartAndResolve() {
	started, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(started.Token)
	s.Equal(1, s.repo.Count())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.SessionsCreated))

	session, err := s.svc.Resolve(s.ctx, started.Token)
	s.Require().NoError(err)
	s.Equal(started.Session.ID, session.ID)

	_, err = s.svc.Resolve(s.ctx, "bogus")
	s.ErrorIs(err, apperrors.ErrTokenInvalid)
}

func (s *FormServiceSuite) TestEditManyOnlyTouchesChangedFields() {
	started, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)

	session, err := s.svc.EditMany(s.ctx, started.Session.ID, map[models.Field]string{
		models.FieldName:  "Alice",
		models.FieldEmail: "",
	})
	s.Require().NoError(err)
	s.True(session.Touched[models.FieldName])
	s.False(session.Touched[models.FieldEmail], "unchanged value is not an edit")
}

func (s *FormServiceSuite) TestNextRefusedCountsMetric() {
	started, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)

	session, res, err := s.svc.Next(s.ctx, started.Session.ID)
	s.Require().NoError(err)
	s.False(res.Advanced)
	s.Equal(models.StepDetails, session.Step)
	s.Len(session.Errors, 4)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StepTransitions.WithLabelValues("next", "refused")))
}

func (s *FormServiceSuite) TestSubmitSuccessDiscardsSession() {
	started := s.startFilled("secret1", "secret1")

	session, res, err := s.svc.Submit(s.ctx, started.Session.ID)
	s.Require().NoError(err)
	s.Equal(models.OutcomeSuccess, res.Outcome)
	s.Equal("Alice", session.Record.Name)
	s.Equal(0, s.repo.Count())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(string(models.OutcomeSuccess))))

	s.Contains(s.logs.String(), "Registration submitted")
	s.Contains(s.logs.String(), "passwordDigest")
	s.NotContains(s.logs.String(), "secret1", "plaintext password never logged")

	_, err = s.svc.Resolve(s.ctx, started.Token)
	s.ErrorIs(err, apperrors.ErrSessionNotFound)
}

func (s *FormServiceSuite) TestSubmitMismatchKeepsSession() {
	started := s.startFilled("secret1", "secret2")

	session, res, err := s.svc.Submit(s.ctx, started.Session.ID)
	s.Require().NoError(err)
	s.Equal(models.OutcomeMismatch, res.Outcome)
	s.Require().NotNil(session.Notice)
	s.Equal(models.NotificationDestructive, session.Notice.Variant)
	s.Equal(models.StepPassword, session.Step)
	s.Equal(1, s.repo.Count())

	stored, err := s.svc.Resolve(s.ctx, started.Token)
	s.Require().NoError(err)
	s.Equal("secret1", stored.Record.Password)
	s.Equal("secret2", stored.Record.ConfirmPassword)
}

func (s *FormServiceSuite) TestBackAndReset() {
	started := s.startFilled("secret1", "secret1")
	id := started.Session.ID

	session, err := s.svc.Back(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StepDetails, session.Step)
	s.Equal("secret1", session.Record.Password)

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StepTransitions.WithLabelValues("back", "done")))

	_, err = s.svc.Back(s.ctx, id)
	s.ErrorIs(err, apperrors.ErrInvalidStep)

	session, err = s.svc.Reset(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(session.Record.Name)
}

func (s *FormServiceSuite) TestResumeKeepsActiveSessionAlive() {
	started, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)
	token := started.Token

	// Well past the one-minute TTL in total, but never idle for a minute.
	for i := 0; i < 5; i++ {
		s.now = s.now.Add(40 * time.Second)

		issued, err := s.svc.Resume(s.ctx, token)
		s.Require().NoError(err, "edit %d", i)
		s.Equal(s.now, issued.Session.UpdatedAt)
		s.Equal(s.now.Add(time.Minute).Unix(), issued.ExpiresAt.Unix())
		token = issued.Token

		_, _, err = s.svc.Edit(s.ctx, issued.Session.ID, models.FieldName, fmt.Sprintf("Alice %d", i))
		s.Require().NoError(err)
		s.Equal(0, s.svc.ExpireIdle(s.ctx, time.Minute))
	}

	_, err = s.svc.Resolve(s.ctx, started.Token)
	s.ErrorIs(err, apperrors.ErrTokenExpired, "the first token is not renewed in place")

	session, err := s.svc.Resolve(s.ctx, token)
	s.Require().NoError(err)
	s.Equal("Alice 4", session.Record.Name)

	s.now = s.now.Add(2 * time.Minute)
	_, err = s.svc.Resume(s.ctx, token)
	s.ErrorIs(err, apperrors.ErrTokenExpired)
	s.Equal(1, s.svc.ExpireIdle(s.ctx, time.Minute))
}

func (s *FormServiceSuite) TestExpireIdle() {
	started, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)

	s.Equal(0, s.svc.ExpireIdle(s.ctx, time.Minute))

	s.now = s.now.Add(2 * time.Minute)
	s.Equal(1, s.svc.ExpireIdle(s.ctx, time.Minute))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.SessionsExpired))

	_, err = s.repo.Get(s.ctx, started.Session.ID)
	s.ErrorIs(err, apperrors.ErrSessionNotFound)
}

func (s *FormServiceSuite) TestRunJanitorStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.svc.RunJanitor(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("janitor did not stop")
	}
}

func (s *FormServiceSuite) TestValidateRecord() {
	res := s.svc.ValidateRecord(models.RegistrationSubmission{Name: "Al"})
	s.False(res.Valid())
	s.Contains(res.Messages(), models.FieldName)
}
