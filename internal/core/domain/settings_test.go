package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "http://localhost:3000/api", s.API.BaseURL)
	assert.Equal(t, 10*time.Second, s.Timeout())
	assert.Equal(t, 200*time.Millisecond, s.Debounce())
	assert.True(t, s.Location.Allow)
	assert.Equal(t, GeolocatorIP, s.Location.Provider)
	assert.Equal(t, DefaultLocation, s.Location.Default)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"empty base url", func(s *AppSettings) { s.API.BaseURL = "" }},
		{"bad scheme", func(s *AppSettings) { s.API.BaseURL = "ftp://x" }},
		{"negative timeout", func(s *AppSettings) { s.API.TimeoutSeconds = -1 }},
		{"negative debounce", func(s *AppSettings) { s.Search.DebounceMS = -5 }},
		{"unknown provider", func(s *AppSettings) { s.Location.Provider = "gps" }},
		{"bad default", func(s *AppSettings) { s.Location.Default = Point{Lat: 100} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestAppSettings_ZeroTimeoutFallsBack(t *testing.T) {
	s := AppSettings{}
	assert.Equal(t, 10*time.Second, s.Timeout())
	assert.Equal(t, time.Duration(0), s.Debounce())
}

func TestGeolocatorKind(t *testing.T) {
	for _, k := range AllGeolocatorKinds() {
		assert.True(t, k.IsValid())
		assert.NotEqual(t, unknownDescription, k.Description())
	}
	assert.False(t, GeolocatorKind("gps").IsValid())
	assert.Equal(t, unknownDescription, GeolocatorKind("gps").Description())
}

func TestProviderMarker(t *testing.T) {
	_, ok := ProviderMarker(Provider{ID: "p"})
	assert.False(t, ok)

	m, ok := ProviderMarker(Provider{ID: "p", Name: "Asha", Rating: 4.26, Category: "salon", Location: &Point{Lat: 1, Lng: 2}})
	assert.True(t, ok)
	assert.Equal(t, MarkerProvider, m.Kind)
	assert.Equal(t, "Asha", m.Title)
	assert.Equal(t, "★ 4.3 · salon", m.Subtitle)
	assert.Equal(t, "p", m.ProviderID)
}
