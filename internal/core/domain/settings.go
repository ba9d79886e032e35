package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// Defaults applied when nothing is configured.
const (
	DefaultAPIBaseURL     = "http://localhost:3000/api"
	DefaultTimeoutSeconds = 10
	DefaultDebounceMS     = 200
)

// GeolocatorKind selects how "use my location" determines a position.
type GeolocatorKind string

// Available geolocators.
const (
	// GeolocatorIP resolves the position from the public IP address.
	GeolocatorIP GeolocatorKind = "ip"

	// GeolocatorFixed always returns the configured default coordinate.
	GeolocatorFixed GeolocatorKind = "fixed"
)

// IsValid returns true if the geolocator kind is recognised.
func (k GeolocatorKind) IsValid() bool {
	return k == GeolocatorIP || k == GeolocatorFixed
}

// String returns the string representation.
func (k GeolocatorKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the geolocator.
func (k GeolocatorKind) Description() string {
	switch k {
	case GeolocatorIP:
		return "IP address lookup"
	case GeolocatorFixed:
		return "Fixed coordinate from settings"
	default:
		return unknownDescription
	}
}

// APISettings configures the backend client.
type APISettings struct {
	// BaseURL is the REST API root, e.g. http://localhost:3000/api.
	BaseURL string

	// ImageBaseURL is prefixed to relative profile image references.
	ImageBaseURL string

	// TimeoutSeconds bounds every request.
	TimeoutSeconds int
}

// MapsSettings configures the geocoding provider.
type MapsSettings struct {
	// APIKey is the Google Maps API key. Geocoding is disabled when empty.
	APIKey string
}

// SearchSettings configures the browse controller.
type SearchSettings struct {
	// DebounceMS is how long text input must be stable before a search fires.
	DebounceMS int
}

// LocationSettings configures geolocation.
type LocationSettings struct {
	// Allow is the user's permission for location lookup.
	Allow bool

	// Provider selects the geolocator.
	Provider GeolocatorKind

	// Default is the fallback map centre.
	Default Point
}

// AppSettings holds all application settings.
type AppSettings struct {
	API      APISettings
	Maps     MapsSettings
	Search   SearchSettings
	Location LocationSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:        DefaultAPIBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Search: SearchSettings{
			DebounceMS: DefaultDebounceMS,
		},
		Location: LocationSettings{
			Allow:    true,
			Provider: GeolocatorIP,
			Default:  DefaultLocation,
		},
	}
}

// Timeout returns the API timeout as a duration.
func (s AppSettings) Timeout() time.Duration {
	if s.API.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(s.API.TimeoutSeconds) * time.Second
}

// Debounce returns the search debounce as a duration.
func (s AppSettings) Debounce() time.Duration {
	if s.Search.DebounceMS < 0 {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(s.Search.DebounceMS) * time.Millisecond
}

// Validate checks the settings are usable.
func (s AppSettings) Validate() error {
	base := strings.TrimSpace(s.API.BaseURL)
	if base == "" {
		return fmt.Errorf("%w: api base url is required", ErrInvalidInput)
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("%w: api base url must start with http:// or https://", ErrInvalidInput)
	}
	if s.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidInput)
	}
	if s.Search.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidInput)
	}
	if !s.Location.Provider.IsValid() {
		return fmt.Errorf("%w: unknown location provider %q", ErrInvalidInput, s.Location.Provider)
	}
	if !s.Location.Default.Valid() {
		return fmt.Errorf("%w: default location out of range", ErrInvalidInput)
	}
	return nil
}

// AllGeolocatorKinds returns all available geolocators.
func AllGeolocatorKinds() []GeolocatorKind {
	return []GeolocatorKind{GeolocatorIP, GeolocatorFixed}
}
