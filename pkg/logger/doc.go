// Package logger builds configured slog loggers and provides attribute
// helpers that keep log field names consistent across the service.
package logger
