// server/internal/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewService("test-secret", "1h")

	token, err := service.GenerateToken("technician-1a2b3c4d", "Sam Ortiz", "technician", "main")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "technician-1a2b3c4d", claims.UserID)
	assert.Equal(t, "Sam Ortiz", claims.Name)
	assert.Equal(t, "technician", claims.Role)
	assert.Equal(t, "main", claims.BranchID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	signer := NewService("secret-a", "1h")
	verifier := NewService("secret-b", "1h")

	token, err := signer.GenerateToken("admin-00000000", "Administrator", "admin", "main")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	service := NewService("test-secret", "1ns")
	token, err := service.GenerateToken("admin-00000000", "Administrator", "admin", "main")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	service := NewService("test-secret", "1h")
	_, err := service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("changeme")
	require.NoError(t, err)
	assert.NotEqual(t, "changeme", hash)

	assert.True(t, CheckPasswordHash("changeme", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
