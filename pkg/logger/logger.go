package logger

import (
	"context"
)

// Logger is the structured logging surface the rest of the service depends
// on. Implementations attach key/value pairs sugar-style.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	With(args ...any) Logger
	Ctx(ctx context.Context) Logger

	GenerateRequestID() string
	GetRequestID(ctx context.Context) string
	WithRequestID(ctx context.Context, requestID string) context.Context
}
