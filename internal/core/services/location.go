package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure LocationService implements the interface.
var _ driving.LocationService = (*LocationService)(nil)

// OriginSetter receives the located position and refetches.
type OriginSetter interface {
	SetOrigin(p domain.Point)
}

// LocationService runs the one-shot "use my location" flow.
type LocationService struct {
	geolocator driven.Geolocator
	api        driven.UserAPI
	origin     OriginSetter

	mu        sync.RWMutex
	current   *domain.Point
	observers []func(domain.Point)
}

// NewLocationService creates a location service. geolocator may be nil, in
// which case every lookup fails with domain.ErrLocationUnavailable.
func NewLocationService(geolocator driven.Geolocator, api driven.UserAPI, origin OriginSetter) *LocationService {
	return &LocationService{
		geolocator: geolocator,
		api:        api,
		origin:     origin,
	}
}

// OnLocated registers fn to be called with every successfully located position.
func (s *LocationService) OnLocated(fn func(domain.Point)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// UseMyLocation looks up the position, records it, saves it to the backend
// best-effort, and refetches nearby providers. Nothing changes on error.
func (s *LocationService) UseMyLocation(ctx context.Context) (domain.Point, error) {
	if s.geolocator == nil {
		return domain.Point{}, domain.ErrLocationUnavailable
	}

	logger.Section("Locate")
	p, err := s.geolocator.Locate(ctx)
	if err != nil {
		logger.Warn("%s geolocation failed: %v", s.geolocator.Name(), err)
		return domain.Point{}, fmt.Errorf("locate: %w", err)
	}
	if !p.Valid() {
		return domain.Point{}, fmt.Errorf("locate: %w", domain.ErrLocationUnavailable)
	}
	logger.Debug("located at %s via %s", p, s.geolocator.Name())

	s.mu.Lock()
	s.current = &p
	observers := append([]func(domain.Point){}, s.observers...)
	s.mu.Unlock()

	if s.api != nil {
		if err := s.api.UpdateUserLocation(ctx, p); err != nil {
			logger.Warn("save user location: %v", err)
		}
	}

	for _, fn := range observers {
		fn(p)
	}
	if s.origin != nil {
		s.origin.SetOrigin(p)
	}
	return p, nil
}

// Current returns the last located position, or nil.
func (s *LocationService) Current() *domain.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}
