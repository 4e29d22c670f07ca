package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driven"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIHost        = "api.host"
	KeyAPITimeout     = "api.timeout_seconds"
	KeyAPIRateLimit   = "api.rate_limit"
	KeySearchPageSize = "search.page_size"
	KeyLogLevel       = "log.level"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing keys take their
// default value.
func (s *SettingsService) Get() (domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := domain.AppSettings{
		API: domain.APISettings{
			Host:           s.getString(KeyAPIHost, defaults.API.Host),
			TimeoutSeconds: s.getInt(KeyAPITimeout, defaults.API.TimeoutSeconds),
			RateLimit:      s.configStore.GetFloat(KeyAPIRateLimit),
		},
		Search: domain.SearchSettings{
			PageSize: s.getInt(KeySearchPageSize, defaults.Search.PageSize),
		},
		Log: domain.LogSettings{
			Level: s.getString(KeyLogLevel, defaults.Log.Level),
		},
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set validates and persists a single setting. Only the given key is
// checked, so an invalid stored value never blocks fixing another one.
func (s *SettingsService) Set(key, value string) error {
	settings := domain.DefaultAppSettings()

	var stored any
	switch key {
	case KeyAPIHost:
		settings.API.Host = strings.TrimRight(value, "/")
		stored = settings.API.Host
	case KeyAPITimeout:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidSetting, key)
		}
		settings.API.TimeoutSeconds = n
		stored = n
	case KeyAPIRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidSetting, key)
		}
		settings.API.RateLimit = f
		stored = f
	case KeySearchPageSize:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidSetting, key)
		}
		settings.Search.PageSize = n
		stored = n
	case KeyLogLevel:
		settings.Log.Level = strings.ToLower(value)
		stored = settings.Log.Level
	default:
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys.
func (s *SettingsService) Keys() []string {
	return []string{KeyAPIHost, KeyAPITimeout, KeyAPIRateLimit, KeySearchPageSize, KeyLogLevel}
}

// Path returns where settings are persisted.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}
