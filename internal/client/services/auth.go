package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
	"github.com/dmitrijs2005/embauco/internal/client/tokens"
	"github.com/dmitrijs2005/embauco/internal/logging"
)

// Session is the part of *session.Manager the auth flow drives.
type Session interface {
	Login(ctx context.Context, token string, identity *models.Identity) error
	Logout(ctx context.Context) error
	Identity() (*models.Identity, bool)
	BeginAuthenticating() bool
	CancelAuthenticating() bool
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login/Register: obtain a credential from the backend and install it in
//     the session. Malformed input fails with client.ErrValidation before any
//     request is made.
//   - Logout: forget the session locally. The backend keeps no session state.
//   - Whoami: the identity of the current session, if any.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, email, password, name string) (*models.Identity, error)
	Logout(ctx context.Context) error
	Whoami() (*models.Identity, bool)
}

type authService struct {
	gw   client.Caller
	sess Session
	log  logging.Logger
}

func NewAuthService(gw client.Caller, sess Session, logger logging.Logger) AuthService {
	return &authService{gw: gw, sess: sess, log: logger.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := client.CheckInput(req); err != nil {
		return nil, err
	}
	return a.authenticate(ctx, "/api/auth/login", req)
}

func (a *authService) Register(ctx context.Context, email, password, name string) (*models.Identity, error) {
	req := models.RegisterRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
		Name:     strings.TrimSpace(name),
	}
	if err := client.CheckInput(req); err != nil {
		return nil, err
	}
	return a.authenticate(ctx, "/api/auth/register", req)
}

func (a *authService) authenticate(ctx context.Context, path string, body any) (*models.Identity, error) {
	began := a.sess.BeginAuthenticating()
	cancel := func() {
		if began {
			a.sess.CancelAuthenticating()
		}
	}

	resp, err := client.Do[models.AuthResponse](ctx, a.gw, path, client.CallOptions{
		Method:   http.MethodPost,
		Body:     body,
		OmitAuth: true,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	identity := IdentityFromAuth(resp)
	if err := a.sess.Login(ctx, resp.Token, identity); err != nil {
		cancel()
		return nil, fmt.Errorf("save session: %w", err)
	}
	return identity, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sess.Logout(ctx)
}

func (a *authService) Whoami() (*models.Identity, bool) {
	return a.sess.Identity()
}

// IdentityFromAuth builds the session identity from an auth response. The
// user record wins; token claims fill the gaps and supply the expiry.
func IdentityFromAuth(resp models.AuthResponse) *models.Identity {
	id := &models.Identity{
		UserID: resp.User.ID,
		Email:  resp.User.Email,
		Name:   resp.User.Name,
	}
	if claims, err := tokens.Inspect(resp.Token); err == nil {
		if id.UserID == "" {
			id.UserID = claims.UserID
		}
		if id.Email == "" {
			id.Email = claims.Email
		}
		id.ExpiresAt = claims.ExpiresAt
	}
	return id
}
