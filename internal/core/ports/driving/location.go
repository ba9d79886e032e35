package driving

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// LocationService runs the "use my location" flow.
type LocationService interface {
	// UseMyLocation looks up the current position, saves it best-effort and
	// refetches nearby providers. State is unchanged on error.
	UseMyLocation(ctx context.Context) (domain.Point, error)

	// Current returns the last located position, or nil.
	Current() *domain.Point
}

// MapSync keeps a map surface in step with the provider list and user location.
type MapSync interface {
	// Attach binds a surface and draws the current state on it.
	Attach(surface driven.MapSurface)

	// SetUserLocation records an explicit user position and recentres on it.
	SetUserLocation(p domain.Point)

	// LoadSavedLocation fetches the stored user position once, unless an
	// explicit position has already been set.
	LoadSavedLocation(ctx context.Context) error

	// Markers returns the markers currently drawn.
	Markers() []domain.MapMarker

	// Center returns the current viewport centre.
	Center() domain.Point
}

// LocationPicker drives the provider's coordinate picker.
type LocationPicker interface {
	// Start loads the saved location and follows provider token changes until ctx ends.
	Start(ctx context.Context) error

	// Reload resets to the default and fetches the saved location again.
	Reload(ctx context.Context) error

	// Pick moves the pin to p (map click or marker drag) and reverse-geocodes it.
	Pick(ctx context.Context, p domain.Point) error

	// SearchPlace moves the pin to the best match for text.
	SearchPlace(ctx context.Context, text string) (domain.Place, error)

	// SetAddress overrides the address text for the current pin.
	SetAddress(address string)

	// Save persists the pin and returns a user-facing message.
	Save(ctx context.Context) (string, error)

	// State returns the current picker state.
	State() domain.PickerState

	// Attach binds a surface; clicks on it call Pick.
	Attach(surface driven.MapSurface)
}

// ProfileService reads and updates the provider's own profile.
type ProfileService interface {
	// Get returns the provider profile.
	Get(ctx context.Context) (*domain.Provider, error)

	// Update validates and submits the profile.
	Update(ctx context.Context, update domain.ProfileUpdate) (*domain.Provider, error)
}
