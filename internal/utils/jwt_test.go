package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	access, err := NewAccessToken("secret", 42, 7)
	require.NoError(t, err)
	require.NotEmpty(t, access.Token)

	// Expiry should be close to seven days out.
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), access.Exp, time.Minute)

	uid, err := VerifyAccessToken("secret", access.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestVerifyExpiredToken(t *testing.T) {
	// A negative TTL mints a token that is already past its expiry.
	access, err := NewAccessToken("secret", 7, -1)
	require.NoError(t, err)

	_, err = VerifyAccessToken("secret", access.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	// Expired must never be reported as malformed.
	assert.NotErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyMalformedToken(t *testing.T) {
	cases := map[string]string{
		"garbage":     "not-a-jwt",
		"empty":       "",
		"truncated":   "eyJhbGciOiJIUzI1NiJ9",
		"wrong parts": "a.b",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := VerifyAccessToken("secret", raw)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	access, err := NewAccessToken("secret", 9, 7)
	require.NoError(t, err)

	_, err = VerifyAccessToken("other-secret", access.Token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsNonHMAC(t *testing.T) {
	// alg=none tokens must be treated as malformed, not accepted.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": 1,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestMissingSecret(t *testing.T) {
	_, err := NewAccessToken("", 1, 7)
	assert.ErrorIs(t, err, ErrMissingSecret)

	access, err := NewAccessToken("secret", 1, 7)
	require.NoError(t, err)
	_, err = VerifyAccessToken("", access.Token)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifyStringSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "17",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	raw, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	uid, err := VerifyAccessToken("secret", raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), uid)
}
