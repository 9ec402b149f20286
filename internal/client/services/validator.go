package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
	"github.com/dmitrijs2005/embauco/internal/client/tokens"
)

// DefaultValidatePath is a cheap protected endpoint. The backend has no
// dedicated identity endpoint, so any 2xx from it proves the credential.
const DefaultValidatePath = "/api/dashboard/stats"

var ErrCredentialExpired = errors.New("credential expired")

// TokenValidator checks a resumed credential. It satisfies session.Validator.
type TokenValidator struct {
	gw   client.Caller
	path string
	now  func() time.Time
}

func NewTokenValidator(gw client.Caller, path string) *TokenValidator {
	if path == "" {
		path = DefaultValidatePath
	}
	return &TokenValidator{gw: gw, path: path, now: time.Now}
}

// Validate calls the validation endpoint with token and returns the identity
// carried by its claims. A JWT that has already expired is rejected without
// a request. Opaque credentials yield an empty identity.
func (v *TokenValidator) Validate(ctx context.Context, token string) (*models.Identity, error) {
	id := &models.Identity{}
	if claims, err := tokens.Inspect(token); err == nil {
		if claims.Expired(v.now()) {
			return nil, ErrCredentialExpired
		}
		id.UserID = claims.UserID
		id.Email = claims.Email
		id.ExpiresAt = claims.ExpiresAt
	}

	// the session does not expose the credential until it is validated, so
	// it is attached explicitly
	_, err := v.gw.Call(ctx, v.path, client.CallOptions{
		OmitAuth: true,
		Headers:  map[string]string{client.AuthorizationHeader: client.BearerHeader(token)},
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}
