package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/AntonStoeckl/bookstore-go/bookstore/oteladapters"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// ParseLogLevel maps debug, info, warn and error (case-insensitive) to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}

// NewLogHandler builds the slog.Handler writing to w with the configured level and format.
// Records logged within a span carry its trace_id and span_id.
func (c Config) NewLogHandler(w io.Writer) (slog.Handler, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch c.LogFormat {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(w, options)
	case LogFormatText:
		handler = slog.NewTextHandler(w, options)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}

	return oteladapters.NewTraceContextHandler(handler), nil
}
