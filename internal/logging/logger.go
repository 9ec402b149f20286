// Package logging is the structured logger handed to every client component.
// The only implementation wraps log/slog; tests use Discard.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	log.Info(ctx, "session resumed", "user_id", id, "phase", phase)
//
// Components derive a child with With("component", name) once at
// construction time.
type Logger interface {
	// Debug is for per-request traces from the gateway.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn marks recoverable trouble such as a forced logout.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
}
