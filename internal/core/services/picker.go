package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure LocationPicker implements the interface.
var _ driving.LocationPicker = (*LocationPicker)(nil)

// Messages returned by Save.
const (
	MsgLocationSaved      = "Location saved successfully!"
	MsgLocationSaveFailed = "Failed to save location"
)

// SessionRefresher re-reads a role's session from storage.
type SessionRefresher interface {
	Refresh(ctx context.Context, role domain.Role) error
}

// LocationPicker lets a provider choose and save their coordinate.
// The pin position and the address text are always updated together.
type LocationPicker struct {
	api       driven.ProviderAPI
	geocoder  driven.Geocoder
	watcher   driven.StorageWatcher
	sessions  SessionRefresher
	fallback  domain.Point
	reloadSig chan struct{}

	mu      sync.Mutex
	state   domain.PickerState
	surface driven.MapSurface
	moveSeq uint64
}

// NewLocationPicker creates a picker. geocoder, watcher and sessions may be nil.
func NewLocationPicker(
	api driven.ProviderAPI,
	geocoder driven.Geocoder,
	watcher driven.StorageWatcher,
	sessions SessionRefresher,
	fallback domain.Point,
) *LocationPicker {
	return &LocationPicker{
		api:       api,
		geocoder:  geocoder,
		watcher:   watcher,
		sessions:  sessions,
		fallback:  fallback,
		reloadSig: make(chan struct{}, 1),
		state:     domain.PickerState{Position: fallback, Address: fallback.String()},
	}
}

// Reloaded delivers a signal after every reload triggered by a token change.
func (p *LocationPicker) Reloaded() <-chan struct{} {
	return p.reloadSig
}

// Start loads the saved location and follows provider token changes until ctx ends.
func (p *LocationPicker) Start(ctx context.Context) error {
	err := p.Reload(ctx)

	if p.watcher != nil {
		changes, werr := p.watcher.Watch(ctx, domain.RoleProvider.TokenKey())
		if werr != nil {
			logger.Warn("watch provider token: %v", werr)
		} else {
			go p.follow(ctx, changes)
		}
	}
	return err
}

func (p *LocationPicker) follow(ctx context.Context, changes <-chan driven.StorageChange) {
	for change := range changes {
		logger.Debug("provider token changed (deleted=%t), reloading location", change.Deleted)
		if p.sessions != nil {
			if err := p.sessions.Refresh(ctx, domain.RoleProvider); err != nil {
				logger.Warn("refresh provider session: %v", err)
			}
		}
		if err := p.Reload(ctx); err != nil {
			logger.Debug("reload location: %v", err)
		}
		select {
		case p.reloadSig <- struct{}{}:
		default:
		}
	}
}

// Reload resets to the default and fetches the saved location again.
func (p *LocationPicker) Reload(ctx context.Context) error {
	p.mu.Lock()
	p.moveSeq++
	p.state = domain.PickerState{Position: p.fallback, Address: p.fallback.String(), Busy: true}
	p.redrawLocked()
	p.mu.Unlock()

	saved, err := p.fetchSaved(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Busy = false
	if saved != nil {
		p.applySavedLocked(*saved)
	}
	p.redrawLocked()
	return err
}

// fetchSaved reads the saved location from the profile, then from the
// location endpoint when the profile carries none. It returns nil when the
// provider has not saved a location.
func (p *LocationPicker) fetchSaved(ctx context.Context) (*domain.ProviderLocation, error) {
	profile, err := p.api.GetProviderProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get provider profile: %w", err)
	}
	if profile != nil && profile.Location != nil {
		return &domain.ProviderLocation{Point: *profile.Location, Address: profile.Address}, nil
	}

	loc, err := p.api.GetProviderLocation(ctx)
	if err != nil {
		logger.Debug("get provider location: %v", err)
		return nil, nil
	}
	return loc, nil
}

func (p *LocationPicker) applySavedLocked(saved domain.ProviderLocation) {
	if saved.Address == "" {
		saved.Address = saved.Point.String()
	}
	p.state.Position = saved.Point
	p.state.Address = saved.Address
	p.state.Saved = &saved
}

// Pick moves the pin to pt and labels it with the reverse-geocoded address.
// When geocoding fails the pin still moves, the address is the coordinate
// itself, and the geocoding error is returned.
func (p *LocationPicker) Pick(ctx context.Context, pt domain.Point) error {
	if !pt.Valid() {
		return fmt.Errorf("%w: coordinate out of range", domain.ErrInvalidInput)
	}

	p.mu.Lock()
	p.moveSeq++
	seq := p.moveSeq
	p.mu.Unlock()

	address := pt.String()
	var geoErr error
	if p.geocoder != nil {
		if a, err := p.geocoder.ReverseGeocode(ctx, pt); err != nil {
			geoErr = fmt.Errorf("reverse geocode: %w", err)
			logger.Warn("%v", geoErr)
		} else if strings.TrimSpace(a) != "" {
			address = a
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.moveSeq {
		return nil
	}
	p.state.Position = pt
	p.state.Address = address
	p.redrawLocked()
	return geoErr
}

// SearchPlace moves the pin to the best match for text.
func (p *LocationPicker) SearchPlace(ctx context.Context, text string) (domain.Place, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Place{}, fmt.Errorf("%w: search text is empty", domain.ErrInvalidInput)
	}
	if p.geocoder == nil {
		return domain.Place{}, domain.ErrGeocoderUnavailable
	}

	places, err := p.geocoder.SearchPlaces(ctx, text)
	if err != nil {
		return domain.Place{}, fmt.Errorf("search places: %w", err)
	}
	if len(places) == 0 {
		return domain.Place{}, fmt.Errorf("search places %q: %w", text, domain.ErrNotFound)
	}
	place := places[0]
	address := place.FormattedAddress
	if address == "" {
		address = place.Name
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveSeq++
	p.state.Position = place.Location
	p.state.Address = address
	p.redrawLocked()
	return place, nil
}

// SetAddress overrides the address text for the current pin.
func (p *LocationPicker) SetAddress(address string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Address = address
}

// Save persists the pin and refetches the saved location. The picked pin
// stays in place unless the refetch returns a saved location.
func (p *LocationPicker) Save(ctx context.Context) (string, error) {
	p.mu.Lock()
	loc := domain.ProviderLocation{Point: p.state.Position, Address: p.state.Address}
	p.state.Busy = true
	p.mu.Unlock()

	logger.Section("Save provider location")
	if err := p.api.SetProviderLocation(ctx, loc); err != nil {
		p.mu.Lock()
		p.state.Busy = false
		p.mu.Unlock()
		logger.Warn("set provider location: %v", err)
		return MsgLocationSaveFailed, fmt.Errorf("set provider location: %w", err)
	}

	p.mu.Lock()
	p.moveSeq++
	p.mu.Unlock()

	saved, err := p.fetchSaved(ctx)
	if err != nil {
		logger.Warn("refetch location after save: %v", err)
	}
	if saved == nil {
		logger.Debug("refetch returned no location, keeping the picked pin")
		saved = &loc
	}

	p.mu.Lock()
	p.state.Busy = false
	p.applySavedLocked(*saved)
	p.redrawLocked()
	p.mu.Unlock()
	return MsgLocationSaved, nil
}

// State returns the current picker state.
func (p *LocationPicker) State() domain.PickerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.state
	if st.Saved != nil {
		s := *st.Saved
		st.Saved = &s
	}
	return st
}

// Attach binds a surface; clicks on it call Pick.
func (p *LocationPicker) Attach(surface driven.MapSurface) {
	p.mu.Lock()
	p.surface = surface
	if surface != nil {
		surface.SetZoom(domain.DefaultZoom)
	}
	p.redrawLocked()
	p.mu.Unlock()

	if surface != nil {
		surface.OnClick(func(pt domain.Point) {
			if err := p.Pick(context.Background(), pt); err != nil {
				logger.Debug("pick: %v", err)
			}
		})
	}
}

// Markers returns the cursor pin and, when saved, the saved-location pin.
func (p *LocationPicker) Markers() []domain.MapMarker {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.markersLocked()
}

func (p *LocationPicker) markersLocked() []domain.MapMarker {
	markers := []domain.MapMarker{{
		Kind:     domain.MarkerCursor,
		Position: p.state.Position,
		Title:    "Selected location",
		Subtitle: p.state.Address,
	}}
	if p.state.Saved != nil {
		markers = append(markers, domain.MapMarker{
			Kind:     domain.MarkerSaved,
			Position: p.state.Saved.Point,
			Title:    "Saved location",
			Subtitle: p.state.Saved.Address,
		})
	}
	return markers
}

func (p *LocationPicker) redrawLocked() {
	if p.surface == nil {
		return
	}
	p.surface.SetCenter(p.state.Position)
	p.surface.RenderMarkers(p.markersLocked())
}
