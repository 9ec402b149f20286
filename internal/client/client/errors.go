package client

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindAPI            Kind = "api"
	KindNetwork        Kind = "network"
	KindValidation     Kind = "validation"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrAPI          = errors.New("api error")
	ErrUnavailable  = errors.New("server unavailable")
	ErrValidation   = errors.New("invalid input")
)

// FallbackMessage is used when a failed response carries no readable message.
const FallbackMessage = "request failed"

const unreachableMessage = "unable to reach the server"

// Error is a normalized gateway failure. Message is meant for the user.
type Error struct {
	Kind    Kind
	Status  int
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel that corresponds to e.Kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindAuthentication:
		return target == ErrUnauthorized
	case KindAPI:
		return target == ErrAPI
	case KindNetwork:
		return target == ErrUnavailable
	case KindValidation:
		return target == ErrValidation
	}
	return false
}

// ValidationError reports caller input rejected before reaching the network.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
