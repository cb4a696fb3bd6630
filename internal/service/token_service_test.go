package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(42, "ann@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "ann@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
	require.NotEmpty(t, claims.TokenID)
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("test-secret", time.Hour)

	now := time.Now().UTC()
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "7",
		"email": "old@example.com",
		"role":  "user",
		"iat":   now.Add(-2 * time.Hour).Unix(),
		"exp":   now.Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.Error(t, err)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(1, "a@x.com", "admin")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("test-secret", time.Hour)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(tokenString)
		require.Error(t, err, "token %q should be rejected", tokenString)
	}
}

func TestTokenServiceRejectsMissingExpiry(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("test-secret", time.Hour)

	// Signed with the right secret but carrying no exp claim. Such a
	// token would otherwise never expire.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "7",
		"email": "noexp@example.com",
		"role":  "user",
		"iat":   time.Now().UTC().Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.Error(t, err)
}

func TestTokenServiceRejectsMissingSubject(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("test-secret", time.Hour)

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "nosub@example.com",
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.Error(t, err)
}
