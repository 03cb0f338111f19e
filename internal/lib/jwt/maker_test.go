package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Minute, time.Hour)

	token, err := maker.GenerateToken("user1", "user", "uid-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.Username)
	assert.Equal(t, []string{"user"}, claims.Roles)
	assert.Equal(t, "uid-1", claims.UserUID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestMaker_RefreshTokenType(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Minute, time.Hour)

	refresh, err := maker.GenerateRefreshToken("user1", "user", "uid-1")
	require.NoError(t, err)

	claims, err := maker.ParseToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestMaker_ExpiredToken(t *testing.T) {
	maker := NewJWTMaker("test-secret", -time.Minute, time.Hour)

	token, err := maker.GenerateToken("user1", "user", "uid-1")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMaker_WrongSecret(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Minute, time.Hour)
	other := NewJWTMaker("other-secret", time.Minute, time.Hour)

	token, err := maker.GenerateToken("user1", "user", "uid-1")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMaker_MalformedToken(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Minute, time.Hour)

	_, err := maker.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
