// Package logger configures structured JSON logging with log/slog, carries
// request-scoped loggers through context.Context, and redacts sensitive
// attributes before they are written.
package logger
