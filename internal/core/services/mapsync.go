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

// Ensure MapSync implements the interface.
var _ driving.MapSync = (*MapSync)(nil)

// MapSync draws provider pins and the user pin on a map surface.
//
// The user position comes from, in priority order: an explicit update, a
// one-time fetch of the saved position, the default coordinate. The view
// recentres on the user when that position changes and on the first
// provider when the collection changes.
type MapSync struct {
	api driven.UserAPI

	mu        sync.Mutex
	surface   driven.MapSurface
	user      domain.Point
	explicit  bool
	fetched   bool
	providers []domain.Provider
	version   uint64
	center    domain.Point
	zoom      int
}

// NewMapSync creates a map sync starting at fallback. api may be nil.
func NewMapSync(api driven.UserAPI, fallback domain.Point) *MapSync {
	return &MapSync{
		api:    api,
		user:   fallback,
		center: fallback,
		zoom:   domain.DefaultZoom,
	}
}

// Attach binds a surface and draws the current state on it.
func (m *MapSync) Attach(surface driven.MapSurface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.surface = surface
	if surface == nil {
		return
	}
	surface.SetZoom(m.zoom)
	surface.SetCenter(m.center)
	surface.RenderMarkers(m.markersLocked())
}

// SetUserLocation records an explicit user position and recentres on it.
// It takes priority over any saved position fetched later.
func (m *MapSync) SetUserLocation(p domain.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.explicit = true
	m.moveUserLocked(p)
}

// LoadSavedLocation fetches the saved user position once. It does nothing if an
// explicit position is already set or a fetch already happened.
func (m *MapSync) LoadSavedLocation(ctx context.Context) error {
	m.mu.Lock()
	if m.explicit || m.fetched || m.api == nil {
		m.mu.Unlock()
		return nil
	}
	m.fetched = true
	m.mu.Unlock()

	p, err := m.api.GetUserLocation(ctx)
	if err != nil {
		logger.Debug("no saved user location: %v", err)
		return fmt.Errorf("get user location: %w", err)
	}
	if p == nil || !p.Valid() || p.IsZero() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.explicit {
		return nil
	}
	m.moveUserLocked(*p)
	return nil
}

func (m *MapSync) moveUserLocked(p domain.Point) {
	m.user = p
	m.center = p
	m.zoom = domain.DefaultZoom
	if m.surface != nil {
		m.surface.SetZoom(m.zoom)
		m.surface.SetCenter(p)
		m.surface.RenderMarkers(m.markersLocked())
	}
}

// OnBrowse applies a browse snapshot. Snapshots whose collection version has
// already been applied are ignored.
func (m *MapSync) OnBrowse(snap domain.BrowseSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap.Version <= m.version {
		return
	}
	m.version = snap.Version
	m.providers = snap.Providers

	for _, p := range m.providers {
		if p.Location != nil {
			m.center = *p.Location
			break
		}
	}
	if m.surface != nil {
		m.surface.SetCenter(m.center)
		m.surface.RenderMarkers(m.markersLocked())
	}
}

// Markers returns the markers currently drawn.
func (m *MapSync) Markers() []domain.MapMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markersLocked()
}

func (m *MapSync) markersLocked() []domain.MapMarker {
	markers := make([]domain.MapMarker, 0, len(m.providers)+1)
	for _, p := range m.providers {
		if mk, ok := domain.ProviderMarker(p); ok {
			markers = append(markers, mk)
		}
	}
	markers = append(markers, domain.MapMarker{
		Kind:     domain.MarkerUser,
		Position: m.user,
		Title:    domain.UserMarkerTitle,
	})
	return markers
}

// Center returns the current viewport centre.
func (m *MapSync) Center() domain.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center
}

// UserLocation returns the position used for the user pin.
func (m *MapSync) UserLocation() domain.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}
