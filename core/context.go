package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	commandKey        contextKey = "command"
)

// WithSuppressHeader marks the context so that run headers are not printed.
// The MCP server uses this because stdout carries the protocol stream.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withCommand records which command started the run
func withCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// commandFromContext returns the command that started the run, or "unknown"
func commandFromContext(ctx context.Context) string {
	if cmd, ok := ctx.Value(commandKey).(string); ok && cmd != "" {
		return cmd
	}
	return "unknown"
}
