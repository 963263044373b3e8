package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/regwizard/internal/app/services"
	"github.com/yigit/regwizard/internal/app/wizard"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

const (
	sessionKey = "formSession"
	issuedKey  = "issuedSession"
)

// SessionTokenHeader may carry the session token instead of the path.
// Responses carry the renewed token in the same header.
const SessionTokenHeader = "X-Session-Token"

// SessionExpiresHeader tells the client when the renewed token expires
const SessionExpiresHeader = "X-Session-Expires-At"

// SessionResolver finds the form session a token refers to and renews its token
type SessionResolver interface {
	Resume(ctx context.Context, token string) (*services.IssuedSession, error)
}

// SessionMiddleware resolves form session tokens on API routes
type SessionMiddleware struct {
	resolver SessionResolver
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(resolver SessionResolver) *SessionMiddleware {
	return &SessionMiddleware{resolver: resolver}
}

// RequireSession loads and renews the session named by the :token path parameter or
// the X-Session-Token header and aborts when it cannot be resolved.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Param("token"))
		if token == "" {
			token = strings.TrimSpace(c.GetHeader(SessionTokenHeader))
		}
		if token == "" {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Session token required"))
			return
		}

		issued, err := m.resolver.Resume(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Header(SessionTokenHeader, issued.Token)
		c.Header(SessionExpiresHeader, issued.ExpiresAt.UTC().Format(time.RFC3339))
		c.Set(sessionKey, issued.Session)
		c.Set(issuedKey, issued)
		c.Next()
	}
}

// CurrentSession returns the session loaded by RequireSession
func CurrentSession(c *gin.Context) (*wizard.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*wizard.Session)
	return s, ok
}

// CurrentIssue returns the renewed token stored by RequireSession
func CurrentIssue(c *gin.Context) (*services.IssuedSession, bool) {
	v, ok := c.Get(issuedKey)
	if !ok {
		return nil, false
	}
	issued, ok := v.(*services.IssuedSession)
	return issued, ok
}
