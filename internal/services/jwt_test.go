package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken("doc@example.com", "Dr. Who", "Doctor")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "doc@example.com", claims.Email)
	assert.Equal(t, "Dr. Who", claims.Name)
	assert.Equal(t, "Doctor", claims.Role)
	assert.Equal(t, "doc@example.com", claims.Subject)
}

func TestTokenExpiresAfter24Hours(t *testing.T) {
	svc := NewJWTService("test-secret")

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	token, err := svc.GenerateToken("doc@example.com", "", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(23 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.Error(t, err, "expired token must fail decode")
}

func TestTamperedTokenFails(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken("doc@example.com", "", "")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateToken(tampered)
	assert.Error(t, err)
}

func TestTokenFromDifferentSecretFails(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken("doc@example.com", "", "")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}
