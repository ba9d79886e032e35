package auth

import (
	"golang.org/x/oauth2"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// TokenGetter returns the bearer token held for a role, or "" when signed out.
type TokenGetter interface {
	Token(role domain.Role) string
}

// Ensure SessionTokenSource implements oauth2.TokenSource.
var _ oauth2.TokenSource = (*SessionTokenSource)(nil)

// SessionTokenSource adapts a role's session to oauth2.TokenSource.
// The token is read on every call so logins and logouts apply immediately.
type SessionTokenSource struct {
	sessions  TokenGetter
	role      domain.Role
	inspector *JWTInspector
}

// NewSessionTokenSource creates a token source for one role.
func NewSessionTokenSource(sessions TokenGetter, role domain.Role) *SessionTokenSource {
	return &SessionTokenSource{
		sessions:  sessions,
		role:      role,
		inspector: NewJWTInspector(),
	}
}

// Token implements oauth2.TokenSource. It fails with domain.ErrAuthRequired
// when the role is signed out.
func (s *SessionTokenSource) Token() (*oauth2.Token, error) {
	accessToken := s.sessions.Token(s.role)
	if accessToken == "" {
		return nil, domain.ErrAuthRequired
	}

	tok := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	if exp, ok := s.inspector.Expiry(accessToken); ok {
		tok.Expiry = exp
	}
	return tok, nil
}

// Sources returns a per-role token source factory for the API client.
func Sources(sessions TokenGetter) func(role domain.Role) oauth2.TokenSource {
	return func(role domain.Role) oauth2.TokenSource {
		return NewSessionTokenSource(sessions, role)
	}
}
