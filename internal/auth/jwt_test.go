package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, "blogpessoal", time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewJWTManager_ShortSecret(t *testing.T) {
	_, err := NewJWTManager("too-short", "blogpessoal", time.Hour)
	assert.Error(t, err)
}

func TestJWTManager_IssueAndParse(t *testing.T) {
	m := newTestManager(t)

	token, issued, err := m.Issue(42, "root@root.com")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "root@root.com", claims.Subject)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_UniqueIDs(t *testing.T) {
	m := newTestManager(t)
	_, a, err := m.Issue(1, "a@a.com")
	require.NoError(t, err)
	_, b, err := m.Issue(1, "a@a.com")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestJWTManager_Expired(t *testing.T) {
	m := newTestManager(t)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	token, _, err := m.Issue(1, "a@a.com")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	m := newTestManager(t)

	other, err := NewJWTManager("ffffffffffffffffffffffffffffffff", "blogpessoal", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue(1, "a@a.com")
	require.NoError(t, err)

	otherIssuer, err := NewJWTManager(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)
	wrongIssuer, _, err := otherIssuer.Issue(1, "a@a.com")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"other secret": foreign,
		"other issuer": wrongIssuer,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
