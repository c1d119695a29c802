// Package logging defines the minimal structured-logging interface used
// across the vault. Implementations can wrap slog, zap, zerolog, etc.
//
// Secret material (master key bytes, credential plaintext) must never be
// passed to any of these methods.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "credential created", "org_id", orgID, "id", id)
type Logger interface {
	// Debug logs a message useful only during development.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given
	// key-value pairs.
	With(args ...any) Logger
}
