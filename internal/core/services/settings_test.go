package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/adapters/driven/storage/memory"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_StoredAndEnvStrings(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		KeyAPIBaseURL:       "https://api.example.com/api/",
		KeyAPITimeout:       "30",
		KeySearchDebounce:   0,
		KeyLocationAllow:    "false",
		KeyLocationProvider: "FIXED",
		KeyLocationLat:      "12.5",
		KeyLocationLng:      77.25,
		KeyMapsAPIKey:       "maps-key",
	})
	svc := NewSettingsService(store)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api", settings.API.BaseURL)
	assert.Equal(t, 30, settings.API.TimeoutSeconds)
	assert.Equal(t, 0, settings.Search.DebounceMS)
	assert.False(t, settings.Location.Allow)
	assert.Equal(t, domain.GeolocatorFixed, settings.Location.Provider)
	assert.Equal(t, domain.Point{Lat: 12.5, Lng: 77.25}, settings.Location.Default)
	assert.Equal(t, "maps-key", settings.Maps.APIKey)
}

func TestSettingsService_Get_UnknownProviderFallsBack(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStoreFrom(map[string]any{KeyLocationProvider: "gps"}))
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.GeolocatorIP, settings.Location.Provider)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.API.BaseURL = "https://api.example.com"
	settings.Search.DebounceMS = 350

	require.NoError(t, svc.Save(&settings))

	assert.Equal(t, "https://api.example.com", store.GetString(KeyAPIBaseURL))
	assert.Equal(t, 350, store.GetInt(KeySearchDebounce))
	_, ok := store.Get(KeyMapsAPIKey)
	assert.False(t, ok, "empty maps key is not written")
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.API.BaseURL = "ftp://nope"

	assert.ErrorIs(t, svc.Save(&settings), domain.ErrInvalidInput)
	_, ok := store.Get(KeyAPIBaseURL)
	assert.False(t, ok)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name: "base url trims slash", key: KeyAPIBaseURL, value: "http://h:1/api/",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, "http://h:1/api", s.API.BaseURL) },
		},
		{
			name: "timeout", key: KeyAPITimeout, value: "5",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 5, s.API.TimeoutSeconds) },
		},
		{
			name: "debounce", key: KeySearchDebounce, value: "0",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 0, s.Search.DebounceMS) },
		},
		{
			name: "allow", key: KeyLocationAllow, value: "false",
			check: func(t *testing.T, s *domain.AppSettings) { assert.False(t, s.Location.Allow) },
		},
		{
			name: "provider", key: KeyLocationProvider, value: "Fixed",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, domain.GeolocatorFixed, s.Location.Provider)
			},
		},
		{
			name: "latitude", key: KeyLocationLat, value: "19.07",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.InDelta(t, 19.07, s.Location.Default.Lat, 0.0001)
			},
		},
		{
			name: "maps key", key: KeyMapsAPIKey, value: "k",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, "k", s.Maps.APIKey) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSettingsService(memory.NewConfigStore())
			require.NoError(t, svc.Set(tt.key, tt.value))
			settings, err := svc.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_Errors(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	assert.ErrorIs(t, svc.Set("nope", "1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(KeyAPITimeout, "soon"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(KeyAPITimeout, "-1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(KeyLocationProvider, "gps"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(KeyLocationLat, "95"), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())
	keys := svc.Keys()
	assert.Len(t, keys, 9)
	assert.Equal(t, KeyAPIBaseURL, keys[0])

	keys[0] = "mutated"
	assert.Equal(t, KeyAPIBaseURL, svc.Keys()[0])
}

func TestSettingValues(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Maps.APIKey = "AIzaSyExampleKey1234"

	values := SettingValues(&settings)

	assert.Len(t, values, len(settingKeys))
	assert.Equal(t, domain.DefaultAPIBaseURL, values[KeyAPIBaseURL])
	assert.Equal(t, "(not set)", values[KeyAPIImageBaseURL])
	assert.Equal(t, "AIza...1234", values[KeyMapsAPIKey])
	assert.Equal(t, "10", values[KeyAPITimeout])
	assert.Equal(t, "200", values[KeySearchDebounce])
	assert.Equal(t, "true", values[KeyLocationAllow])
	assert.Equal(t, "28.6139", values[KeyLocationLat])
	assert.Contains(t, values[KeyLocationProvider], "ip (")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "****", MaskAPIKey("12345678"))
	assert.Equal(t, "1234...6789", MaskAPIKey("123456789"))
}
