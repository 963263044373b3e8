package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/regwizard/internal/app/wizard"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

// ISessionRepository defines the operations on form session storage
type ISessionRepository interface {
	Create(ctx context.Context, session *wizard.Session) error
	Get(ctx context.Context, id uuid.UUID) (*wizard.Session, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*wizard.Session) error) (*wizard.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIdle(ctx context.Context, before time.Time) int
	Count() int
}

// SessionRepository keeps form sessions in process memory
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*wizard.Session
}

// NewSessionRepository creates an empty session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[uuid.UUID]*wizard.Session),
	}
}

// Create stores a new session
func (r *SessionRepository) Create(_ context.Context, session *wizard.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}

// Get returns a copy of a session
func (r *SessionRepository) Get(_ context.Context, id uuid.UUID) (*wizard.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Update applies fn to a session under the repository lock and returns a copy
// of the result. The stored session is left untouched when fn fails.
func (r *SessionRepository) Update(_ context.Context, id uuid.UUID, fn func(*wizard.Session) error) (*wizard.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	working := s.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.sessions[id] = working
	return working.Clone(), nil
}

// Delete removes a session
func (r *SessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// DeleteIdle drops sessions not updated since before and reports how many
func (r *SessionRepository) DeleteIdle(_ context.Context, before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Count returns the number of live sessions
func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
