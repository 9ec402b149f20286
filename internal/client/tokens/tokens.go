// Package tokens reads the claims of a session credential without verifying
// its signature. The backend owns the signing key; the client only needs the
// user id and expiry to build an Identity and to skip resuming a session that
// has already expired.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned for credentials that are not JWTs.
var ErrMalformed = errors.New("credential is not a JWT")

type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the credential is past its expiry at now.
// Credentials without an exp claim never expire client-side.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type sessionClaims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Inspect decodes the claims of token.
func Inspect(token string) (*Claims, error) {
	var sc sessionClaims
	if _, _, err := parser.ParseUnverified(token, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	c := &Claims{UserID: sc.UserID, Email: sc.Email}
	if c.UserID == "" {
		c.UserID = sc.Subject
	}
	if sc.ExpiresAt != nil {
		c.ExpiresAt = sc.ExpiresAt.Time
	}
	return c, nil
}
