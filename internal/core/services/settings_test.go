package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-drayer/discovery-cli/internal/adapters/driven/storage/memory"
	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyAPIHost:        "https://data.example.com",
		KeyAPITimeout:     int64(0),
		KeyAPIRateLimit:   2.5,
		KeySearchPageSize: int64(25),
		KeyLogLevel:       "warn",
	})

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)

	assert.Equal(t, "https://data.example.com", settings.API.Host)
	assert.Zero(t, settings.API.TimeoutSeconds)
	assert.InDelta(t, 2.5, settings.API.RateLimit, 0.0001)
	assert.Equal(t, 25, settings.Search.PageSize)
	assert.Equal(t, "warn", settings.Log.Level)
}

func TestSettingsService_Get_InvalidStoredValue(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyAPIHost: "not a url"})

	_, err := NewSettingsService(store).Get()
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  any
	}{
		{KeyAPIHost, "http://localhost:9000/", "http://localhost:9000"},
		{KeyAPITimeout, "15", 15},
		{KeyAPIRateLimit, "0.5", 0.5},
		{KeySearchPageSize, "50", 50},
		{KeyLogLevel, "INFO", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := memory.NewConfigStore()
			require.NoError(t, NewSettingsService(store).Set(tt.key, tt.value))

			got, exists := store.Get(tt.key)
			assert.True(t, exists)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "embedding.provider", "x"},
		{"bad host", KeyAPIHost, "localhost"},
		{"non-numeric timeout", KeyAPITimeout, "soon"},
		{"negative rate", KeyAPIRateLimit, "-1"},
		{"zero page size", KeySearchPageSize, "0"},
		{"bad level", KeyLogLevel, "chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store).Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidSetting)
			assert.Empty(t, store.Keys())
		})
	}
}

func TestSettingsService_Set_FixesOneKeyDespiteAnother(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyLogLevel: "chatty"})
	svc := NewSettingsService(store)

	require.NoError(t, svc.Set(KeyAPIHost, "https://ok.example.com"))
	require.NoError(t, svc.Set(KeyLogLevel, "error"))

	_, err := svc.Get()
	assert.NoError(t, err)
}

func TestSettingsService_Keys(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())
	assert.Len(t, svc.Keys(), 5)
	assert.Equal(t, ":memory:", svc.Path())
}
