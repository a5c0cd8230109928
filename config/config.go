package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "BOOKSTORE_"

const (
	IDFormatUUID    = "uuid"
	IDFormatCompact = "compact"
)

var (
	ErrInvalidLogLevel           = errors.New("invalid log level, expected debug, info, warn or error")
	ErrInvalidLogFormat          = errors.New("invalid log format, expected json or text")
	ErrInvalidIDFormat           = errors.New("invalid id format, expected uuid or compact")
	ErrInvalidMaxIDAttempts      = errors.New("max id attempts must be at least 1")
	ErrInvalidTimeout            = errors.New("timeouts must be positive")
	ErrMissingOTelEndpoint       = errors.New("otel is enabled but no endpoint is configured")
	ErrInvalidOTelMetricInterval = errors.New("otel metric interval must be positive")
)

// Config is the complete service configuration.
type Config struct {
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":9000"`
	AllowedOrigin     string        `env:"ALLOWED_ORIGIN" envDefault:"*"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	IDFormat      string `env:"ID_FORMAT" envDefault:"uuid"`
	MaxIDAttempts int    `env:"MAX_ID_ATTEMPTS" envDefault:"3"`

	OTel OTelConfig `envPrefix:"OTEL_"`
}

// OTelConfig configures the OTLP/HTTP export of traces and metrics.
type OTelConfig struct {
	Enabled        bool          `env:"ENABLED" envDefault:"false"`
	Endpoint       string        `env:"ENDPOINT"`
	ServiceName    string        `env:"SERVICE_NAME" envDefault:"bookstore"`
	MetricInterval time.Duration `env:"METRIC_INTERVAL" envDefault:"15s"`
}

// Load parses the configuration from BOOKSTORE_* environment variables and validates it.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Parse reads BOOKSTORE_* environment variables without validating the result,
// so callers can apply overrides before calling Validate.
func Parse() (Config, error) {
	var cfg Config

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatText {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat))
	}

	if _, err := c.IDGenerator(); err != nil {
		errs = append(errs, err)
	}

	if c.MaxIDAttempts < 1 {
		errs = append(errs, ErrInvalidMaxIDAttempts)
	}

	if c.ReadHeaderTimeout <= 0 || c.ShutdownTimeout <= 0 {
		errs = append(errs, ErrInvalidTimeout)
	}

	if c.OTel.Enabled && c.OTel.Endpoint == "" {
		errs = append(errs, ErrMissingOTelEndpoint)
	}

	if c.OTel.Enabled && c.OTel.MetricInterval <= 0 {
		errs = append(errs, ErrInvalidOTelMetricInterval)
	}

	return errors.Join(errs...)
}

// IDGenerator returns the book id generator selected by IDFormat.
func (c Config) IDGenerator() (bookstore.IDGenerator, error) {
	switch c.IDFormat {
	case IDFormatUUID:
		return bookstore.NewUUIDv4, nil
	case IDFormatCompact:
		return bookstore.NewCompactID, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidIDFormat, c.IDFormat)
	}
}
