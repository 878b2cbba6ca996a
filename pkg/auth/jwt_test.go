package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	s, err := NewJWTService("test-secret", 24)
	require.NoError(t, err)
	return s
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 24)
	assert.Error(t, err)
}

func TestJWTService_GenerateAndParse(t *testing.T) {
	s := newTestJWTService(t)
	user := &entity.User{ID: 42, Role: entity.RoleInstructor}

	token, expiresAt, err := s.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, entity.RoleInstructor, claims.Role)
	assert.NotEmpty(t, claims.ID, "каждый токен получает jti")
	assert.Greater(t, s.TTL(claims), 23*time.Hour)
}

func TestJWTService_ParseToken_Expired(t *testing.T) {
	s := newTestJWTService(t)
	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, _, err := s.GenerateToken(&entity.User{ID: 1, Role: entity.RoleParticipant})
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken)
	assert.True(t, apperrors.IsCredentialError(err))
}

func TestJWTService_ParseToken_Invalid(t *testing.T) {
	s := newTestJWTService(t)
	other, err := NewJWTService("other-secret", 24)
	require.NoError(t, err)

	foreign, _, err := other.GenerateToken(&entity.User{ID: 1, Role: entity.RoleAdmin})
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTCustomClaims{UserID: 1, Role: entity.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, _, err := s.GenerateToken(&entity.User{ID: 1, Role: entity.RoleAdmin})
	require.NoError(t, err)
	tampered := valid[:strings.LastIndex(valid, ".")] + ".AAAA"

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-jwt"},
		{"чужая подпись", foreign},
		{"алгоритм none", noneToken},
		{"подмененная подпись", tampered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ParseToken(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
		})
	}
}

func TestJWTService_ParseToken_UnknownRole(t *testing.T) {
	s := newTestJWTService(t)
	token, _, err := s.GenerateToken(&entity.User{ID: 5, Role: "superuser"})
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
}
