package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-secret-that-is-long-enough-for-hs256"

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", time.Hour, "catalog")
	assert.ErrorIs(t, err, ErrMissingSecret)

	m, err := NewTokenManager(testSecret, 0, "catalog")
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, m.TTL())
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour, "catalog")
	require.NoError(t, err)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	token, expiresAt, err := m.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), expiresAt)
	assert.Equal(t, 2, strings.Count(token, "."))

	userID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenManager_ParseRejects(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour, "catalog")
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret-entirely-different", time.Hour, "catalog")
	require.NoError(t, err)
	foreign, _, err := other.Issue(7)
	require.NoError(t, err)

	expired, err := NewTokenManager(testSecret, time.Hour, "catalog")
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.Issue(7)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "7",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"alg none", none},
		{"missing expiry", noExpiry},
		{"non-numeric subject", badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
