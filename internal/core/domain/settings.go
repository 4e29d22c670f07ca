package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default settings values.
const (
	DefaultAPIHost        = "http://localhost:4000"
	DefaultTimeoutSeconds = 60
	DefaultLogLevel       = "debug"
)

// APISettings configures the connection to the data service.
type APISettings struct {
	// Host is the base address every request path is resolved against.
	Host string

	// TimeoutSeconds bounds each request. Zero disables the timeout.
	TimeoutSeconds int

	// RateLimit is the maximum requests per second. Zero means unlimited.
	RateLimit float64
}

// Timeout returns the request timeout as a duration.
func (s APISettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// SearchSettings configures dataset search.
type SearchSettings struct {
	PageSize int
}

// LogSettings configures verbose logging.
type LogSettings struct {
	// Level is the minimum level printed in verbose mode.
	Level string
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	API    APISettings
	Search SearchSettings
	Log    LogSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			Host:           DefaultAPIHost,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Search: SearchSettings{
			PageSize: DefaultPageSize,
		},
		Log: LogSettings{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks that the settings can be used to build a client.
func (s AppSettings) Validate() error {
	if err := ValidateHost(s.API.Host); err != nil {
		return err
	}
	if s.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: api.timeout_seconds must not be negative", ErrInvalidSetting)
	}
	if s.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidSetting)
	}
	if s.Search.PageSize <= 0 {
		return fmt.Errorf("%w: search.page_size must be positive", ErrInvalidSetting)
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidSetting, s.Log.Level)
	}
	return nil
}

// ValidateHost checks that host is an absolute http(s) URL.
func ValidateHost(host string) error {
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("%w: api.host: %w", ErrInvalidSetting, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: api.host must use http or https, got %q", ErrInvalidSetting, host)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: api.host has no host: %q", ErrInvalidSetting, host)
	}
	return nil
}
