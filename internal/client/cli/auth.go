package cli

import (
	"context"
	"fmt"
	"time"
)

// Register prompts for email, name and password and creates an account.
// A successful registration also logs the user in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	id, err := a.auth.Register(ctx, email, password, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", id.Label())
	return nil
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	if a.session.Authenticated() {
		id, _ := a.session.Identity()
		fmt.Fprintf(a.out, "Already logged in as %s, use logout first.\n", id.Label())
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	id, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.log.Info(ctx, "login failed", "error", err)
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", id.Label())
	return nil
}

// Logout forgets the session locally. It is safe to call when logged out.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Whoami(context.Context) error {
	id, ok := a.auth.Whoami()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if id.Email != "" {
		fmt.Fprintf(a.out, "%s <%s>\n", id.Label(), id.Email)
	} else {
		fmt.Fprintln(a.out, id.Label())
	}
	if id.UserID != "" {
		fmt.Fprintf(a.out, "User ID: %s\n", id.UserID)
	}
	return nil
}

// Status shows the session phase, the identity and credential timestamps.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Session: %s\n", a.session.Phase())

	if id, ok := a.session.Identity(); ok {
		fmt.Fprintf(a.out, "User: %s\n", id.Label())
		if !id.ExpiresAt.IsZero() {
			fmt.Fprintf(a.out, "Expires: %s\n", id.ExpiresAt.Local().Format(time.DateTime))
		}
	}

	if r, ok := a.store.(savedAtReader); ok {
		at, found, err := r.SavedAt(ctx)
		if err != nil {
			a.log.Warn(ctx, "read credential timestamp", "error", err)
		} else if found {
			fmt.Fprintf(a.out, "Saved: %s\n", at.Local().Format(time.DateTime))
		}
	}
	return nil
}
