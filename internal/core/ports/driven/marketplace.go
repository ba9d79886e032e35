package driven

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// AuthAPI exposes the public authentication endpoints.
type AuthAPI interface {
	// Login authenticates an existing account for the given role.
	Login(ctx context.Context, role domain.Role, creds domain.Credentials) (*domain.AuthResult, error)

	// SignupUser registers an end-user account.
	SignupUser(ctx context.Context, form domain.UserSignup) (*domain.AuthResult, error)

	// SignupProvider registers a provider account.
	SignupProvider(ctx context.Context, form domain.ProviderSignup) (*domain.AuthResult, error)
}

// UserAPI exposes the end-user endpoints. All calls use the user token.
type UserAPI interface {
	// GetUserProfile returns the signed-in user's account.
	GetUserProfile(ctx context.Context) (*domain.Account, error)

	// GetCategoryCounts returns provider counts keyed by category name.
	GetCategoryCounts(ctx context.Context) (map[string]int, error)

	// NearbyProviders lists providers near origin, or near the stored user location when origin is nil.
	NearbyProviders(ctx context.Context, origin *domain.Point) ([]domain.Provider, error)

	// SearchProviders performs a free-text search.
	SearchProviders(ctx context.Context, query string) ([]domain.Provider, error)

	// ProvidersByCategory lists providers in one category.
	ProvidersByCategory(ctx context.Context, category string) ([]domain.Provider, error)

	// GetProvider returns one provider's full record.
	GetProvider(ctx context.Context, id string) (*domain.Provider, error)

	// RateProvider submits a rating and returns the new aggregate.
	RateProvider(ctx context.Context, id string, rating int) (float64, error)

	// UpdateUserLocation persists the user's coordinate.
	UpdateUserLocation(ctx context.Context, p domain.Point) error

	// GetUserLocation returns the previously saved coordinate, or nil if none.
	GetUserLocation(ctx context.Context) (*domain.Point, error)
}

// ProviderAPI exposes the provider endpoints. All calls use the provider token.
type ProviderAPI interface {
	// GetProviderProfile returns the signed-in provider's own record.
	GetProviderProfile(ctx context.Context) (*domain.Provider, error)

	// UpdateProviderProfile submits profile fields and an optional image.
	UpdateProviderProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Provider, error)

	// SetProviderLocation persists the provider's coordinate and address.
	SetProviderLocation(ctx context.Context, loc domain.ProviderLocation) error

	// GetProviderLocation returns the saved coordinate, or nil if none.
	GetProviderLocation(ctx context.Context) (*domain.ProviderLocation, error)
}
