package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", 7*24*time.Hour)

	tok, err := m.Issue(42, "ana@example.com", "admin", "ana")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestManager_VerifyExpired(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := m.Issue(1, "a@example.com", "team_member", "a")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_VerifyWrongSecret(t *testing.T) {
	tok, err := NewManager("one", time.Hour).Issue(1, "a@example.com", "team_member", "a")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_VerifyRejectsGarbageAndNoneAlg(t *testing.T) {
	m := NewManager("secret", time.Hour)

	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: "admin"})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
