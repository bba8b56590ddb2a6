package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/gigmarket/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.C.JWTSecret = "test-secret"
	config.C.TokenTTL = time.Hour

	signed, err := IssueToken("user-123", "seller")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "seller", claims.UserType)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	config.C.JWTSecret = "first-secret"
	config.C.TokenTTL = time.Hour

	signed, err := IssueToken("user-123", "buyer")
	require.NoError(t, err)

	config.C.JWTSecret = "other-secret"
	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.C.JWTSecret = "test-secret"
	config.C.TokenTTL = -time.Minute

	signed, err := IssueToken("user-123", "buyer")
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.C.JWTSecret = "test-secret"
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
