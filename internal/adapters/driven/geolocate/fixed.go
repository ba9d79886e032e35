package geolocate

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// Ensure Fixed implements the interface.
var _ driven.Geolocator = Fixed{}

// Fixed always reports the same coordinate.
type Fixed struct {
	Point domain.Point
}

// Name identifies the geolocator.
func (Fixed) Name() string {
	return domain.GeolocatorFixed.String()
}

// Locate returns the configured coordinate.
func (f Fixed) Locate(context.Context) (domain.Point, error) {
	if !f.Point.Valid() {
		return domain.Point{}, domain.ErrLocationUnavailable
	}
	return f.Point, nil
}
