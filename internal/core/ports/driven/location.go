package driven

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// Geolocator determines the device's current position.
type Geolocator interface {
	// Locate returns the current position.
	// Returns domain.ErrLocationDenied when the user has not granted permission,
	// or domain.ErrLocationUnavailable when no position can be determined.
	Locate(ctx context.Context) (domain.Point, error)

	// Name identifies the geolocator for display.
	Name() string
}

// Geocoder converts between coordinates and addresses.
type Geocoder interface {
	// ReverseGeocode returns the formatted address closest to p.
	ReverseGeocode(ctx context.Context, p domain.Point) (string, error)

	// SearchPlaces finds places matching text, best match first.
	SearchPlaces(ctx context.Context, text string) ([]domain.Place, error)
}

// MapSurface is a drawable map.
type MapSurface interface {
	// RenderMarkers replaces every marker on the surface.
	RenderMarkers(markers []domain.MapMarker)

	// SetCenter moves the viewport centre.
	SetCenter(p domain.Point)

	// SetZoom sets the zoom level.
	SetZoom(level int)

	// OnClick registers the handler invoked with the coordinate the user picks.
	OnClick(fn func(domain.Point))
}
