package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager("test-secret", 24)

	tokenString, err := manager.GenerateToken("talkhub-bot", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := manager.VerifyToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "talkhub-bot", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-a", 24)
	other := NewJWTManager("secret-b", 24)

	tokenString, err := manager.GenerateToken("talkhub-bot", "admin")
	require.NoError(t, err)

	_, err = other.VerifyToken(tokenString)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", 24)

	_, err := manager.VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestTokenDuration(t *testing.T) {
	manager := NewJWTManager("test-secret", 24)
	assert.Equal(t, 24*time.Hour, manager.TokenDuration())
}
