package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"  // sentinel error definitions and matching
	"strconv" // string-to-int conversion for string subject claims
	"time"    // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Token verification failures are split into distinct sentinels so the
// boundary layer can tell an expired credential apart from a forged or
// corrupted one.
var (
	// ErrMissingSecret means the signing key was never configured. This is
	// a boot-time fault: config.Load refuses to start without JWT_SECRET,
	// so seeing this at runtime indicates miswired construction.
	ErrMissingSecret = errors.New("jwt secret not configured")
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry timestamp has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed covers every other verification failure: bad
	// structure, wrong algorithm, or an invalid signature.
	ErrTokenMalformed = errors.New("token malformed")
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string. Exp stores the expiration
// timestamp as a time.Time. Access tokens are bearer credentials encoded
// in the Authorization header when calling protected endpoints; there is
// no refresh or revocation mechanism, a token is valid for its full
// lifetime once issued.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. It takes the
// signing secret, the subject user ID, and a TTL in days. The JWT carries
// only the standard claims: subject (sub), expiration (exp) and issued at
// (iat). Role is deliberately not embedded; the authorization layer loads
// the identity record per request so deactivated accounts are cut off
// without waiting for token expiry.
func NewAccessToken(secret string, userID uint64, ttlDays int) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, ErrMissingSecret
	}
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks the signature and expiry of a raw token string
// and returns the subject user ID. Expired tokens are reported as
// ErrTokenExpired; any structurally or cryptographically invalid token is
// reported as ErrTokenMalformed.
func VerifyAccessToken(secret, raw string) (uint64, error) {
	if secret == "" {
		return 0, ErrMissingSecret
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC; otherwise a
		// client could downgrade to "none" or switch algorithms.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenMalformed
	}
	if !tok.Valid {
		return 0, ErrTokenMalformed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenMalformed
	}
	// JSON numbers decode as float64; tolerate string subjects for tokens
	// minted by other tooling.
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), nil
	case string:
		id, perr := strconv.ParseUint(sub, 10, 64)
		if perr != nil {
			return 0, ErrTokenMalformed
		}
		return id, nil
	}
	return 0, ErrTokenMalformed
}
