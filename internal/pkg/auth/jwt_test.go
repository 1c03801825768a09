package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "test"})

	token, exp, err := svc.GenerateToken("user-1", "alice@school.edu")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@school.edu", claims.Email)
}

func TestJWTValidateFailures(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenExp: time.Hour})
	token, _, err := svc.GenerateToken("user-1", "alice@school.edu")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "other", TokenExp: time.Hour})
		_, err := other.ValidateToken(token)
		assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("secret not configured", func(t *testing.T) {
		empty := NewJWTService(JWTConfig{})
		_, err := empty.ValidateToken(token)
		assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTService(JWTConfig{SecretKey: "secret", TokenExp: time.Hour})
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateToken(token)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, header := range []string{"", "abc", "Basic abc", "Bearer"} {
		_, err := ExtractBearerToken(header)
		assert.Error(t, err, header)
	}
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, CheckPassword(hash, "pw123456"))
	assert.False(t, CheckPassword(hash, "wrong"))

	other, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ per hash")
}
