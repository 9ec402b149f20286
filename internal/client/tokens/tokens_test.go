package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestInspect_BackendToken(t *testing.T) {
	exp := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second)
	tok := sign(t, jwt.MapClaims{"user_id": "u-42", "exp": exp.Unix()})

	c, err := Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-42", c.UserID)
	assert.True(t, exp.Equal(c.ExpiresAt))
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp))
}

func TestInspect_SubjectFallback(t *testing.T) {
	tok := sign(t, jwt.RegisteredClaims{Subject: "sub-1"})

	c, err := Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", c.UserID)
	assert.True(t, c.ExpiresAt.IsZero())
	assert.False(t, c.Expired(time.Now().Add(100*365*24*time.Hour)))
}

func TestInspect_ExpiredTokenStillDecodes(t *testing.T) {
	tok := sign(t, jwt.MapClaims{"user_id": "u", "exp": time.Now().Add(-time.Hour).Unix()})

	c, err := Inspect(tok)
	require.NoError(t, err)
	assert.True(t, c.Expired(time.Now()))
}

func TestInspect_Malformed(t *testing.T) {
	for _, tok := range []string{"", "opaque-token", "a.b.c"} {
		_, err := Inspect(tok)
		require.ErrorIs(t, err, ErrMalformed, tok)
	}
}
