package geolocate

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// Ensure Gate implements the interface.
var _ driven.Geolocator = (*Gate)(nil)

// Gate consults a permission check before every lookup, the way a browser
// asks before sharing the device position.
type Gate struct {
	inner   driven.Geolocator
	allowed func() bool
}

// NewGate wraps inner. allowed is read on every call so a settings change
// applies without rebuilding the geolocator.
func NewGate(inner driven.Geolocator, allowed func() bool) *Gate {
	return &Gate{inner: inner, allowed: allowed}
}

// Name identifies the wrapped geolocator.
func (g *Gate) Name() string {
	return g.inner.Name()
}

// Locate returns domain.ErrLocationDenied without a lookup when permission is off.
func (g *Gate) Locate(ctx context.Context) (domain.Point, error) {
	if g.allowed != nil && !g.allowed() {
		return domain.Point{}, domain.ErrLocationDenied
	}
	return g.inner.Locate(ctx)
}

// New builds the geolocator selected by settings, gated on the permission
// flag. allowed overrides settings.Allow when non-nil.
func New(settings domain.LocationSettings, allowed func() bool) driven.Geolocator {
	var inner driven.Geolocator
	switch settings.Provider {
	case domain.GeolocatorFixed:
		inner = Fixed{Point: settings.Default}
	default:
		inner = NewIPGeolocator("", nil)
	}

	if allowed == nil {
		allow := settings.Allow
		allowed = func() bool { return allow }
	}
	return NewGate(inner, allowed)
}
