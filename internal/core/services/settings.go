package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyAPIBaseURL       = "api.base_url"
	KeyAPIImageBaseURL  = "api.image_base_url"
	KeyAPITimeout       = "api.timeout_seconds"
	KeyMapsAPIKey       = "maps.api_key"
	KeySearchDebounce   = "search.debounce_ms"
	KeyLocationAllow    = "location.allow"
	KeyLocationProvider = "location.provider"
	KeyLocationLat      = "location.default_lat"
	KeyLocationLng      = "location.default_lng"
)

// settingKeys lists the settable keys in display order.
var settingKeys = []string{
	KeyAPIBaseURL,
	KeyAPIImageBaseURL,
	KeyAPITimeout,
	KeyMapsAPIKey,
	KeySearchDebounce,
	KeyLocationAllow,
	KeyLocationProvider,
	KeyLocationLat,
	KeyLocationLng,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:        strings.TrimRight(s.getString(KeyAPIBaseURL, defaults.API.BaseURL), "/"),
			ImageBaseURL:   s.configStore.GetString(KeyAPIImageBaseURL),
			TimeoutSeconds: s.getInt(KeyAPITimeout, defaults.API.TimeoutSeconds),
		},
		Maps: domain.MapsSettings{
			APIKey: s.configStore.GetString(KeyMapsAPIKey),
		},
		Search: domain.SearchSettings{
			DebounceMS: s.getInt(KeySearchDebounce, defaults.Search.DebounceMS),
		},
		Location: domain.LocationSettings{
			Allow:    s.getBool(KeyLocationAllow, defaults.Location.Allow),
			Provider: s.getGeolocator(defaults.Location.Provider),
			Default: domain.Point{
				Lat: s.getFloat(KeyLocationLat, defaults.Location.Default.Lat),
				Lng: s.getFloat(KeyLocationLng, defaults.Location.Default.Lng),
			},
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyAPIBaseURL, settings.API.BaseURL},
		{KeyAPIImageBaseURL, settings.API.ImageBaseURL},
		{KeyAPITimeout, settings.API.TimeoutSeconds},
		{KeySearchDebounce, settings.Search.DebounceMS},
		{KeyLocationAllow, settings.Location.Allow},
		{KeyLocationProvider, settings.Location.Provider.String()},
		{KeyLocationLat, settings.Location.Default.Lat},
		{KeyLocationLng, settings.Location.Default.Lng},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Maps.APIKey != "" {
		if err := s.configStore.Set(KeyMapsAPIKey, settings.Maps.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyMapsAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key and persists the resulting settings.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case KeyAPIBaseURL:
		settings.API.BaseURL = strings.TrimRight(value, "/")
	case KeyAPIImageBaseURL:
		settings.API.ImageBaseURL = value
	case KeyAPITimeout:
		settings.API.TimeoutSeconds, err = strconv.Atoi(value)
	case KeyMapsAPIKey:
		if value == "" {
			return s.configStore.Set(KeyMapsAPIKey, "")
		}
		settings.Maps.APIKey = value
	case KeySearchDebounce:
		settings.Search.DebounceMS, err = strconv.Atoi(value)
	case KeyLocationAllow:
		settings.Location.Allow, err = strconv.ParseBool(value)
	case KeyLocationProvider:
		settings.Location.Provider = domain.GeolocatorKind(strings.ToLower(value))
	case KeyLocationLat:
		settings.Location.Default.Lat, err = strconv.ParseFloat(value, 64)
	case KeyLocationLng:
		settings.Location.Default.Lng, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	return s.Save(settings)
}

// Keys lists the settable keys in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// SettingValues renders each setting for display, keyed like Keys. The maps
// API key is masked.
func SettingValues(s *domain.AppSettings) map[string]string {
	apiKey := "(not set)"
	if s.Maps.APIKey != "" {
		apiKey = MaskAPIKey(s.Maps.APIKey)
	}
	imageBase := s.API.ImageBaseURL
	if imageBase == "" {
		imageBase = "(not set)"
	}
	return map[string]string{
		KeyAPIBaseURL:       s.API.BaseURL,
		KeyAPIImageBaseURL:  imageBase,
		KeyAPITimeout:       strconv.Itoa(s.API.TimeoutSeconds),
		KeyMapsAPIKey:       apiKey,
		KeySearchDebounce:   strconv.Itoa(s.Search.DebounceMS),
		KeyLocationAllow:    strconv.FormatBool(s.Location.Allow),
		KeyLocationProvider: s.Location.Provider.String() + " (" + s.Location.Provider.Description() + ")",
		KeyLocationLat:      strconv.FormatFloat(s.Location.Default.Lat, 'f', -1, 64),
		KeyLocationLng:      strconv.FormatFloat(s.Location.Default.Lng, 'f', -1, 64),
	}
}

// MaskAPIKey keeps the first and last four characters of key.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
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

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getGeolocator(defaultVal domain.GeolocatorKind) domain.GeolocatorKind {
	val := s.configStore.GetString(KeyLocationProvider)
	if val == "" {
		return defaultVal
	}
	kind := domain.GeolocatorKind(strings.ToLower(val))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}
