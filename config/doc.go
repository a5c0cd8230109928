// Package config loads the bookstore service configuration from the environment
// and builds the ambient infrastructure from it: the slog logger and the
// OpenTelemetry tracer and meter providers.
package config
