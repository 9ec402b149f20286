package models

import "time"

// Identity is the minimal user marker attached to an authenticated session.
// It is derived from the credential and never persisted on its own.
type Identity struct {
	UserID string
	Email  string
	Name   string

	// ExpiresAt is zero when the credential carries no expiry.
	ExpiresAt time.Time
}

// Label returns the most human-friendly name available.
func (i *Identity) Label() string {
	switch {
	case i == nil:
		return ""
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return i.UserID
	}
}
