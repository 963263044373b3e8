package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/repositories"
	"github.com/yigit/regwizard/internal/app/validators"
	"github.com/yigit/regwizard/internal/app/wizard"
	"github.com/yigit/regwizard/internal/metrics"
	"github.com/yigit/regwizard/internal/pkg/auth"
)

// FormService runs the registration wizard for many independent sessions
type FormService struct {
	sessionRepo  repositories.ISessionRepository
	tokenService *auth.TokenService
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

// NewFormService creates a new FormService
func NewFormService(
	sessionRepo repositories.ISessionRepository,
	tokenService *auth.TokenService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *FormService {
	return &FormService{
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		metrics:      m,
		logger:       logger.With().Str("component", "form_service").Logger(),
		now:          time.Now,
	}
}

// IssuedSession is a session together with the token that currently addresses it
type IssuedSession struct {
	Session   *wizard.Session
	Token     string
	ExpiresAt time.Time
}

// Start opens a fresh form session
func (s *FormService) Start(ctx context.Context) (*IssuedSession, error) {
	session := wizard.NewSession(s.now())
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store form session: %w", err)
	}

	token, expiresAt, err := s.tokenService.Issue(session.ID)
	if err != nil {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, err
	}

	s.metrics.IncrementSessionsCreated()
	s.metrics.SetLiveSessions(s.sessionRepo.Count())
	s.logger.Debug().Str("sessionId", session.ID.String()).Msg("Form session started")

	return &IssuedSession{Session: session, Token: token, ExpiresAt: expiresAt}, nil
}

// Resolve returns the session a token refers to
func (s *FormService) Resolve(ctx context.Context, token string) (*wizard.Session, error) {
	id, err := s.tokenService.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.Get(ctx, id)
}

// Resume resolves a token, marks the session active and issues a fresh token,
// so the token expiry follows the same idle timeout the janitor applies.
func (s *FormService) Resume(ctx context.Context, token string) (*IssuedSession, error) {
	id, err := s.tokenService.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.Update(ctx, id, func(ws *wizard.Session) error {
		ws.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	renewed, expiresAt, err := s.tokenService.Issue(id)
	if err != nil {
		return nil, err
	}
	return &IssuedSession{Session: session, Token: renewed, ExpiresAt: expiresAt}, nil
}

// Edit applies a single field edit
func (s *FormService) Edit(ctx context.Context, id uuid.UUID, field models.Field, value string) (*wizard.Session, validators.FieldResult, error) {
	var res validators.FieldResult
	session, err := s.sessionRepo.Update(ctx, id, func(ws *wizard.Session) error {
		var err error
		res, err = ws.Edit(field, value, s.now())
		return err
	})
	if err != nil {
		return nil, validators.FieldResult{}, err
	}
	return session, res, nil
}

// EditMany applies edits for every field whose value differs from the stored one
func (s *FormService) EditMany(ctx context.Context, id uuid.UUID, values map[models.Field]string) (*wizard.Session, error) {
	return s.sessionRepo.Update(ctx, id, func(ws *wizard.Session) error {
		now := s.now()
		for _, f := range models.AllFields {
			v, ok := values[f]
			if !ok || v == ws.Record.Get(f) {
				continue
			}
			if _, err := ws.Edit(f, v, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// Next attempts to move a session to the password step
func (s *FormService) Next(ctx context.Context, id uuid.UUID) (*wizard.Session, wizard.NextResult, error) {
	var res wizard.NextResult
	start := time.Now()
	session, err := s.sessionRepo.Update(ctx, id, func(ws *wizard.Session) error {
		var err error
		res, err = ws.Next(s.now())
		return err
	})
	if err != nil {
		return nil, wizard.NextResult{}, err
	}
	s.metrics.ObserveValidation(start)
	s.metrics.ObserveNext(res.Advanced)

	s.logger.Debug().
		Str("sessionId", id.String()).
		Bool("advanced", res.Advanced).
		Int("invalidFields", len(res.Fields.Messages())).
		Msg("Next requested")
	return session, res, nil
}

// Back returns a session to the details step
func (s *FormService) Back(ctx context.Context, id uuid.UUID) (*wizard.Session, error) {
	session, err := s.sessionRepo.Update(ctx, id, func(ws *wizard.Session) error {
		return ws.Back(s.now())
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveBack()
	return session, nil
}

// Submit validates and submits a session. A successful submission is logged
// with the passwords replaced by a digest and the session is discarded.
func (s *FormService) Submit(ctx context.Context, id uuid.UUID) (*wizard.Session, wizard.SubmitResult, error) {
	var res wizard.SubmitResult
	start := time.Now()
	session, err := s.sessionRepo.Update(ctx, id, func(ws *wizard.Session) error {
		var err error
		res, err = ws.Submit(s.now())
		return err
	})
	if err != nil {
		return nil, wizard.SubmitResult{}, err
	}
	s.metrics.ObserveValidation(start)
	s.metrics.ObserveSubmission(res.Outcome)

	switch res.Outcome {
	case models.OutcomeInvalid:
		s.logger.Info().
			Str("sessionId", id.String()).
			Interface("errors", res.Fields.Messages()).
			Msg("Submission rejected by schema")
	case models.OutcomeMismatch:
		s.logger.Info().Str("sessionId", id.String()).Msg("Submission rejected: passwords do not match")
	case models.OutcomeSuccess:
		s.logSubmission(id, res.Submission)
		if err := s.sessionRepo.Delete(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("sessionId", id.String()).Msg("Failed to discard submitted session")
		}
		s.metrics.SetLiveSessions(s.sessionRepo.Count())
	}

	return session, res, nil
}

// Reset starts a session over
func (s *FormService) Reset(ctx context.Context, id uuid.UUID) (*wizard.Session, error) {
	return s.sessionRepo.Update(ctx, id, func(ws *wizard.Session) error {
		ws.Reset(s.now())
		return nil
	})
}

// Discard drops a session
func (s *FormService) Discard(ctx context.Context, id uuid.UUID) error {
	err := s.sessionRepo.Delete(ctx, id)
	s.metrics.SetLiveSessions(s.sessionRepo.Count())
	return err
}

// ValidateRecord runs the schema over a standalone record
func (s *FormService) ValidateRecord(record models.RegistrationSubmission) validators.Result {
	start := time.Now()
	defer s.metrics.ObserveValidation(start)
	return validators.Validate(record)
}

// RunJanitor drops sessions idle for longer than ttl every interval until ctx is done
func (s *FormService) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Dur("ttl", ttl).Msg("Session janitor started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Session janitor stopped")
			return
		case <-ticker.C:
			s.ExpireIdle(ctx, ttl)
		}
	}
}

// ExpireIdle drops sessions idle for longer than ttl and reports how many
func (s *FormService) ExpireIdle(ctx context.Context, ttl time.Duration) int {
	n := s.sessionRepo.DeleteIdle(ctx, s.now().Add(-ttl))
	if n > 0 {
		s.metrics.AddSessionsExpired(n)
		s.logger.Debug().Int("count", n).Msg("Expired idle form sessions")
	}
	s.metrics.SetLiveSessions(s.sessionRepo.Count())
	return n
}

func (s *FormService) logSubmission(id uuid.UUID, sub *models.RegistrationSubmission) {
	if sub == nil {
		return
	}
	digest, err := auth.PasswordDigest(sub.Password)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to digest password for submission log")
		digest = "<unavailable>"
	}
	s.logger.Info().
		Str("sessionId", id.String()).
		Dict("submission", zerolog.Dict().
			Str("email", sub.Email).
			Str("name", sub.Name).
			Str("studentId", sub.StudentID).
			Str("year", sub.Year).
			Str("passwordDigest", digest)).
		Msg("Registration submitted")
}
