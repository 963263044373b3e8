package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

// TokenConfig defines session token settings
type TokenConfig struct {
	SecretKey   string
	TTL         time.Duration
	TokenIssuer string
	// Clock defaults to time.Now
	Clock func() time.Time
}

// TokenService signs and verifies form session tokens
type TokenService struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(config TokenConfig) *TokenService {
	now := config.Clock
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		config: config,
		now:    now,
	}
}

// Claims defines the session token content; the JWT ID is the session ID
type Claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed token for a form session, valid for TTL from now.
// Reissuing on activity keeps the expiry in step with the session's idle timeout.
func (s *TokenService) Issue(sessionID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.TTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			ID:        sessionID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a token and returns the session ID it carries
func (s *TokenService) Parse(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithIssuer(s.config.TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperrors.ErrTokenExpired
		}
		return uuid.Nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, apperrors.ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad session id", apperrors.ErrTokenInvalid)
	}
	return id, nil
}
