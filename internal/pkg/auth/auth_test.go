package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

func newTestService(now time.Time) *TokenService {
	return NewTokenService(TokenConfig{
		SecretKey:   "secret",
		TTL:         time.Minute,
		TokenIssuer: "test",
		Clock:       func() time.Time { return now },
	})
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()
	svc := newTestService(now)
	id := uuid.New()

	token, exp, err := svc.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Minute), exp, time.Second)

	got, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	svc := newTestService(now)
	token, _, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenReissueExtendsExpiry(t *testing.T) {
	now := time.Now()
	svc := NewTokenService(TokenConfig{
		SecretKey:   "secret",
		TTL:         time.Minute,
		TokenIssuer: "test",
		Clock:       func() time.Time { return now },
	})
	id := uuid.New()

	first, _, err := svc.Issue(id)
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	second, exp, err := svc.Issue(id)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute).Unix(), exp.Unix())

	now = now.Add(45 * time.Second)
	_, err = svc.Parse(first)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	got, err := svc.Parse(second)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenRejected(t *testing.T) {
	now := time.Now()
	svc := newTestService(now)

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Parse("")
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Parse("not.a.token")
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewTokenService(TokenConfig{SecretKey: "other", TTL: time.Minute, TokenIssuer: "test"})
		token, _, err := other.Issue(uuid.New())
		require.NoError(t, err)
		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := NewTokenService(TokenConfig{SecretKey: "secret", TTL: time.Minute, TokenIssuer: "elsewhere"})
		token, _, err := other.Issue(uuid.New())
		require.NoError(t, err)
		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("not a uuid", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "session-1",
			Issuer:    "test",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}

func TestPasswordDigest(t *testing.T) {
	digest, err := PasswordDigest("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)
	assert.True(t, CheckPassword(digest, "secret1"))
	assert.False(t, CheckPassword(digest, "secret2"))
}
