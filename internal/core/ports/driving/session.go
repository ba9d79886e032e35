package driving

import (
	"context"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// SessionService owns the end-user and provider sessions.
type SessionService interface {
	// Current returns the session for role, or nil when signed out.
	Current(role domain.Role) *domain.Session

	// Token returns the bearer token for role, or "" when signed out.
	Token(role domain.Role) string

	// Login authenticates and persists a session for role.
	Login(ctx context.Context, role domain.Role, creds domain.Credentials) (*domain.Session, error)

	// SignupUser registers an end-user. The returned session is nil when the
	// backend did not issue a token and the user must log in.
	SignupUser(ctx context.Context, form domain.UserSignup) (*domain.Session, error)

	// SignupProvider registers a provider. The returned session is nil when the
	// backend did not issue a token and the provider must log in.
	SignupProvider(ctx context.Context, form domain.ProviderSignup) (*domain.Session, error)

	// Logout destroys the session for role and its persisted state.
	Logout(ctx context.Context, role domain.Role) error

	// SyncAccount refetches the signed-in account for role and updates the
	// cached copy. It returns nil when role is signed out.
	SyncAccount(ctx context.Context, role domain.Role) (*domain.Session, error)
}
