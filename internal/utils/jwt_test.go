// internal/utils/jwt_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyIdentityTokenRoundTrip(t *testing.T) {
	ConfigureIdentityProvider("test-secret", "https://id.test")

	token, err := SignIdentityToken("ext-123", "farmer@example.com", "Farmer One", "farm", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyIdentityToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ext-123", claims.Subject)
	assert.Equal(t, "farmer@example.com", claims.Email)
	assert.Equal(t, "Farmer One", claims.FullName)
	assert.Equal(t, "farm", claims.Role)
}

func TestVerifyIdentityTokenWrongSecret(t *testing.T) {
	ConfigureIdentityProvider("test-secret", "https://id.test")
	token, err := SignIdentityToken("ext-123", "farmer@example.com", "", "", time.Hour)
	require.NoError(t, err)

	ConfigureIdentityProvider("a-different-secret", "https://id.test")
	_, err = VerifyIdentityToken(token)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenWrongIssuer(t *testing.T) {
	ConfigureIdentityProvider("test-secret", "https://rogue-idp.test")
	token, err := SignIdentityToken("ext-123", "farmer@example.com", "", "", time.Hour)
	require.NoError(t, err)

	// Same secret, different expected issuer
	ConfigureIdentityProvider("test-secret", "https://id.test")
	_, err = VerifyIdentityToken(token)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenExpired(t *testing.T) {
	ConfigureIdentityProvider("test-secret", "https://id.test")
	token, err := SignIdentityToken("ext-123", "farmer@example.com", "", "", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyIdentityToken(token)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenMissingSubject(t *testing.T) {
	ConfigureIdentityProvider("test-secret", "https://id.test")
	token, err := SignIdentityToken("", "farmer@example.com", "", "", time.Hour)
	require.NoError(t, err)

	_, err = VerifyIdentityToken(token)
	assert.Error(t, err)
}

func TestVerifyIdentityTokenGarbage(t *testing.T) {
	ConfigureIdentityProvider("test-secret", "https://id.test")
	_, err := VerifyIdentityToken("not-a-jwt")
	assert.Error(t, err)
}
