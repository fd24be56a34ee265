// Package debug carries the debug flag through context and configures the
// process logger accordingly.
package debug

import (
	"context"
	"log/slog"
	"os"
	"strconv"
)

type contextKey struct{}

// EnvVar enables debug mode without the --debug flag.
const EnvVar = "RUNDECK_DEBUG"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether debug mode is on for this context, falling back
// to the RUNDECK_DEBUG environment variable when the context carries no
// setting.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return FromEnv()
}

// FromEnv reports whether RUNDECK_DEBUG is set to a truthy value.
func FromEnv() bool {
	v, err := strconv.ParseBool(os.Getenv(EnvVar))
	return err == nil && v
}

// SetupLogger configures slog based on debug mode. Debug mode logs every
// API call with its timing; otherwise only warnings and errors surface.
func SetupLogger(debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
