package mcp

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// mockBrowser is a mock implementation of driving.Browser.
type mockBrowser struct {
	providers []domain.Provider
	err       error
	filter    domain.FilterState
}

func (m *mockBrowser) SetQuery(string)             {}
func (m *mockBrowser) SetCategory(string)          {}
func (m *mockBrowser) SetOrigin(domain.Point)      {}
func (m *mockBrowser) Refresh()                    {}
func (m *mockBrowser) PatchRating(string, float64) {}
func (m *mockBrowser) Close()                      {}

func (m *mockBrowser) Snapshot() domain.BrowseSnapshot {
	return domain.BrowseSnapshot{}
}

func (m *mockBrowser) Subscribe(func(domain.BrowseSnapshot)) func() {
	return func() {}
}

func (m *mockBrowser) Fetch(_ context.Context, f domain.FilterState) ([]domain.Provider, error) {
	m.filter = f
	return m.providers, m.err
}

// mockDetailService is a mock implementation of driving.DetailService.
type mockDetailService struct {
	providers map[string]domain.Provider
	average   float64
	rateErr   error
	rated     int
	closed    int
}

func (m *mockDetailService) Open(_ context.Context, id string) domain.DetailState {
	p, ok := m.providers[id]
	if !ok {
		return domain.DetailState{Status: domain.DetailEmpty, ProviderID: id}
	}
	return domain.DetailState{Status: domain.DetailLoaded, ProviderID: id, Provider: &p}
}

func (m *mockDetailService) Rate(_ context.Context, rating int) (float64, error) {
	m.rated = rating
	return m.average, m.rateErr
}

func (m *mockDetailService) State() domain.DetailState { return domain.DetailState{} }
func (m *mockDetailService) Close()                    { m.closed++ }

// mockCategoryService is a mock implementation of driving.CategoryService.
type mockCategoryService struct {
	categories []domain.Category
	err        error
}

func (m *mockCategoryService) Load(context.Context) ([]domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockCategoryService) Categories() []domain.Category {
	return m.categories
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
