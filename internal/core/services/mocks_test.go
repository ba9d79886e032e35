package services

import (
	"context"
	"sync"
	"time"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// apiCall records one UserAPI call.
type apiCall struct {
	method string
	arg    string
	origin *domain.Point
}

// mockUserAPI implements driven.UserAPI for testing.
// The list functions default to returning an empty list.
type mockUserAPI struct {
	mu    sync.Mutex
	calls []apiCall

	nearbyFn   func(ctx context.Context, origin *domain.Point) ([]domain.Provider, error)
	searchFn   func(ctx context.Context, query string) ([]domain.Provider, error)
	categoryFn func(ctx context.Context, category string) ([]domain.Provider, error)

	counts    map[string]int
	countsErr error

	provider    *domain.Provider
	providerErr error

	rating    float64
	rateErr   error
	rateCalls int

	savedLocation  *domain.Point
	locationErr    error
	updateErr      error
	updatedTo      []domain.Point
	profile        *domain.Account
	locationFetchN int
}

func (m *mockUserAPI) record(c apiCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *mockUserAPI) Calls() []apiCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]apiCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockUserAPI) GetUserProfile(_ context.Context) (*domain.Account, error) {
	m.record(apiCall{method: "profile"})
	if m.profile == nil {
		return nil, domain.ErrNotFound
	}
	return m.profile, nil
}

func (m *mockUserAPI) GetCategoryCounts(_ context.Context) (map[string]int, error) {
	m.record(apiCall{method: "counts"})
	return m.counts, m.countsErr
}

func (m *mockUserAPI) NearbyProviders(ctx context.Context, origin *domain.Point) ([]domain.Provider, error) {
	m.record(apiCall{method: "nearby", origin: origin})
	if m.nearbyFn != nil {
		return m.nearbyFn(ctx, origin)
	}
	return []domain.Provider{}, nil
}

func (m *mockUserAPI) SearchProviders(ctx context.Context, query string) ([]domain.Provider, error) {
	m.record(apiCall{method: "search", arg: query})
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []domain.Provider{}, nil
}

func (m *mockUserAPI) ProvidersByCategory(ctx context.Context, category string) ([]domain.Provider, error) {
	m.record(apiCall{method: "category", arg: category})
	if m.categoryFn != nil {
		return m.categoryFn(ctx, category)
	}
	return []domain.Provider{}, nil
}

func (m *mockUserAPI) GetProvider(_ context.Context, id string) (*domain.Provider, error) {
	m.record(apiCall{method: "provider", arg: id})
	if m.providerErr != nil {
		return nil, m.providerErr
	}
	if m.provider == nil {
		return nil, nil
	}
	cp := *m.provider
	return &cp, nil
}

func (m *mockUserAPI) RateProvider(_ context.Context, id string, _ int) (float64, error) {
	m.record(apiCall{method: "rate", arg: id})
	m.mu.Lock()
	m.rateCalls++
	m.mu.Unlock()
	return m.rating, m.rateErr
}

func (m *mockUserAPI) UpdateUserLocation(_ context.Context, p domain.Point) error {
	m.record(apiCall{method: "update-location"})
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updatedTo = append(m.updatedTo, p)
	return m.updateErr
}

func (m *mockUserAPI) GetUserLocation(_ context.Context) (*domain.Point, error) {
	m.record(apiCall{method: "get-location"})
	m.mu.Lock()
	m.locationFetchN++
	m.mu.Unlock()
	return m.savedLocation, m.locationErr
}

// mockProviderAPI implements driven.ProviderAPI for testing.
type mockProviderAPI struct {
	mu sync.Mutex

	profile    *domain.Provider
	profileErr error
	profileN   int

	updated   []domain.ProfileUpdate
	updateErr error

	saved   []domain.ProviderLocation
	saveErr error

	// staleProfile leaves the profile untouched by SetProviderLocation.
	staleProfile bool

	location    *domain.ProviderLocation
	locationErr error
	locationN   int
}

func (m *mockProviderAPI) GetProviderProfile(_ context.Context) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileN++
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	if m.profile == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.profile
	return &cp, nil
}

func (m *mockProviderAPI) UpdateProviderProfile(_ context.Context, u domain.ProfileUpdate) (*domain.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, u)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &domain.Provider{ID: "me", Name: u.Name, Category: u.Category, Price: u.Price}, nil
}

func (m *mockProviderAPI) SetProviderLocation(_ context.Context, loc domain.ProviderLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, loc)
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.staleProfile {
		return nil
	}
	if m.profile == nil {
		m.profile = &domain.Provider{ID: "me"}
	}
	p := loc.Point
	m.profile.Location = &p
	m.profile.Address = loc.Address
	return nil
}

func (m *mockProviderAPI) GetProviderLocation(_ context.Context) (*domain.ProviderLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locationN++
	if m.locationErr != nil {
		return nil, m.locationErr
	}
	if m.location != nil {
		cp := *m.location
		return &cp, nil
	}
	if m.profile == nil || m.profile.Location == nil {
		return nil, nil
	}
	return &domain.ProviderLocation{Point: *m.profile.Location, Address: m.profile.Address}, nil
}

func (m *mockProviderAPI) ProfileCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profileN
}

// mockAuthAPI implements driven.AuthAPI for testing.
type mockAuthAPI struct {
	result *domain.AuthResult
	err    error

	lastRole     domain.Role
	lastCreds    domain.Credentials
	lastUser     domain.UserSignup
	lastProvider domain.ProviderSignup
}

func (m *mockAuthAPI) Login(_ context.Context, role domain.Role, creds domain.Credentials) (*domain.AuthResult, error) {
	m.lastRole = role
	m.lastCreds = creds
	return m.result, m.err
}

func (m *mockAuthAPI) SignupUser(_ context.Context, form domain.UserSignup) (*domain.AuthResult, error) {
	m.lastUser = form
	return m.result, m.err
}

func (m *mockAuthAPI) SignupProvider(_ context.Context, form domain.ProviderSignup) (*domain.AuthResult, error) {
	m.lastProvider = form
	return m.result, m.err
}

// mockInspector implements driven.TokenInspector for testing.
type mockInspector struct {
	expiries map[string]time.Time
	subjects map[string]string
}

func (m *mockInspector) Expiry(token string) (time.Time, bool) {
	exp, ok := m.expiries[token]
	return exp, ok
}

func (m *mockInspector) Subject(token string) string {
	return m.subjects[token]
}

// mockGeolocator implements driven.Geolocator for testing.
type mockGeolocator struct {
	point domain.Point
	err   error
	calls int
}

func (m *mockGeolocator) Locate(_ context.Context) (domain.Point, error) {
	m.calls++
	return m.point, m.err
}

func (m *mockGeolocator) Name() string { return "mock" }

// mockGeocoder implements driven.Geocoder for testing.
type mockGeocoder struct {
	mu         sync.Mutex
	address    string
	reverseErr error
	places     []domain.Place
	searchErr  error
	reversed   []domain.Point
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, p domain.Point) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reversed = append(m.reversed, p)
	return m.address, m.reverseErr
}

func (m *mockGeocoder) SearchPlaces(_ context.Context, _ string) ([]domain.Place, error) {
	return m.places, m.searchErr
}

// mockSurface implements driven.MapSurface for testing.
type mockSurface struct {
	mu      sync.Mutex
	markers []domain.MapMarker
	center  domain.Point
	zoom    int
	centres int
	click   func(domain.Point)
}

func (m *mockSurface) RenderMarkers(markers []domain.MapMarker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = markers
}

func (m *mockSurface) SetCenter(p domain.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = p
	m.centres++
}

func (m *mockSurface) SetZoom(level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = level
}

func (m *mockSurface) OnClick(fn func(domain.Point)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.click = fn
}

func (m *mockSurface) Center() domain.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center
}

func (m *mockSurface) Markers() []domain.MapMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers
}

// mockWatcher implements driven.StorageWatcher for testing.
type mockWatcher struct {
	ch chan driven.StorageChange
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{ch: make(chan driven.StorageChange, 4)}
}

func (m *mockWatcher) Watch(ctx context.Context, _ string) (<-chan driven.StorageChange, error) {
	out := make(chan driven.StorageChange)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case c := <-m.ch:
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
