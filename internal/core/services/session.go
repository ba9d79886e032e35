package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService holds the end-user and provider sessions and keeps them in
// step with durable storage.
type SessionService struct {
	store     driven.KeyValueStore
	auth      driven.AuthAPI
	inspector driven.TokenInspector
	users     driven.UserAPI
	providers driven.ProviderAPI
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[domain.Role]*domain.Session
}

// NewSessionService creates a session service. inspector may be nil.
func NewSessionService(
	store driven.KeyValueStore,
	auth driven.AuthAPI,
	inspector driven.TokenInspector,
) *SessionService {
	return &SessionService{
		store:     store,
		auth:      auth,
		inspector: inspector,
		now:       time.Now,
		sessions:  make(map[domain.Role]*domain.Session),
	}
}

// UseProfiles sets where SyncAccount reads accounts from. Either may be nil.
func (s *SessionService) UseProfiles(users driven.UserAPI, providers driven.ProviderAPI) {
	s.users = users
	s.providers = providers
}

// Restore loads persisted sessions. Sessions whose token has expired are
// removed from storage instead of being restored.
func (s *SessionService) Restore(ctx context.Context) error {
	for _, role := range domain.Roles() {
		if err := s.restore(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

// Refresh re-reads one role's session from storage. Used when another process
// has logged in or out.
func (s *SessionService) Refresh(ctx context.Context, role domain.Role) error {
	return s.restore(ctx, role)
}

func (s *SessionService) restore(ctx context.Context, role domain.Role) error {
	token, ok, err := s.store.Get(ctx, role.TokenKey())
	if err != nil {
		return fmt.Errorf("load %s token: %w", role, err)
	}
	if !ok || token == "" {
		s.set(role, nil)
		return nil
	}

	if s.expired(token) {
		logger.Info("discarding expired %s session", role)
		return s.clear(ctx, role)
	}

	session := &domain.Session{Role: role, Token: token}
	if raw, found, err := s.store.Get(ctx, role.ProfileKey()); err == nil && found {
		if err := json.Unmarshal([]byte(raw), &session.Account); err != nil {
			logger.Warn("ignoring unreadable cached %s account: %v", role, err)
		}
	}
	if session.Account.ID == "" && s.inspector != nil {
		session.Account.ID = s.inspector.Subject(token)
	}

	s.set(role, session)
	logger.Debug("restored %s session for %s", role, session.Account.Email)
	return nil
}

func (s *SessionService) expired(token string) bool {
	if s.inspector == nil {
		return false
	}
	exp, ok := s.inspector.Expiry(token)
	return ok && !exp.After(s.now())
}

// Current returns the session for role, or nil when signed out.
func (s *SessionService) Current(role domain.Role) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session := s.sessions[role]
	if session == nil {
		return nil
	}
	cp := *session
	return &cp
}

// Token returns the bearer token for role, or "" when signed out.
func (s *SessionService) Token(role domain.Role) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session := s.sessions[role]; session != nil {
		return session.Token
	}
	return ""
}

// Login authenticates and persists a session for role.
func (s *SessionService) Login(
	ctx context.Context,
	role domain.Role,
	creds domain.Credentials,
) (*domain.Session, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	logger.Section(fmt.Sprintf("Login (%s)", role))
	result, err := s.auth.Login(ctx, role, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if result == nil || result.Token == "" {
		return nil, errors.New("login: backend returned no token")
	}

	return s.establish(ctx, role, result, domain.Account{Email: creds.Email})
}

// SignupUser registers an end-user.
func (s *SessionService) SignupUser(ctx context.Context, form domain.UserSignup) (*domain.Session, error) {
	form.Email = strings.TrimSpace(form.Email)
	if form.Email == "" || form.Password == "" || form.FullName() == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidInput)
	}

	logger.Section("Signup (user)")
	result, err := s.auth.SignupUser(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if result == nil || result.Token == "" {
		return nil, nil
	}
	return s.establish(ctx, domain.RoleUser, result, domain.Account{Name: form.FullName(), Email: form.Email})
}

// SignupProvider registers a provider.
func (s *SessionService) SignupProvider(ctx context.Context, form domain.ProviderSignup) (*domain.Session, error) {
	form.Email = strings.TrimSpace(form.Email)
	if form.Email == "" || form.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	logger.Section("Signup (provider)")
	result, err := s.auth.SignupProvider(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if result == nil || result.Token == "" {
		return nil, nil
	}
	return s.establish(ctx, domain.RoleProvider, result, domain.Account{Email: form.Email})
}

// establish fills missing account fields from the submitted input and persists the session.
func (s *SessionService) establish(
	ctx context.Context,
	role domain.Role,
	result *domain.AuthResult,
	fallback domain.Account,
) (*domain.Session, error) {
	account := result.Account
	if account.Email == "" {
		account.Email = fallback.Email
	}
	if account.Name == "" {
		account.Name = fallback.Name
	}
	if account.Name == "" {
		account.Name = domain.NameFromEmail(account.Email)
	}

	session := &domain.Session{
		Role:      role,
		Account:   account,
		Token:     result.Token,
		CreatedAt: s.now(),
	}

	profile, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	if err := s.store.Set(ctx, role.TokenKey(), session.Token); err != nil {
		return nil, fmt.Errorf("save %s token: %w", role, err)
	}
	if err := s.store.Set(ctx, role.ProfileKey(), string(profile)); err != nil {
		return nil, fmt.Errorf("save %s account: %w", role, err)
	}

	s.set(role, session)
	logger.Info("signed in as %s (%s)", account.Email, role)

	cp := *session
	return &cp, nil
}

// Logout destroys the session for role and its persisted state.
func (s *SessionService) Logout(ctx context.Context, role domain.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	logger.Debug("logging out %s", role)
	return s.clear(ctx, role)
}

// SyncAccount refetches the signed-in account for role and updates the cached
// copy. Fields the backend leaves empty keep their cached value. On failure
// the cached session is returned with the error.
func (s *SessionService) SyncAccount(ctx context.Context, role domain.Role) (*domain.Session, error) {
	session := s.Current(role)
	if !session.Authenticated() {
		return nil, nil
	}

	fetched, err := s.fetchAccount(ctx, role)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
		return session, err
	}
	if fetched == nil {
		return session, nil
	}

	account := session.Account
	account.ID = firstNonEmpty(fetched.ID, account.ID)
	account.Name = firstNonEmpty(fetched.Name, account.Name)
	account.Email = firstNonEmpty(fetched.Email, account.Email)
	if account == session.Account {
		return session, nil
	}

	raw, err := json.Marshal(account)
	if err != nil {
		return session, fmt.Errorf("encode account: %w", err)
	}
	if err := s.store.Set(ctx, role.ProfileKey(), string(raw)); err != nil {
		return session, fmt.Errorf("save %s account: %w", role, err)
	}

	s.mu.Lock()
	if current := s.sessions[role]; current != nil && current.Token == session.Token {
		current.Account = account
	}
	s.mu.Unlock()

	logger.Debug("synced %s account %s", role, account.Email)
	session.Account = account
	return session, nil
}

func (s *SessionService) fetchAccount(ctx context.Context, role domain.Role) (*domain.Account, error) {
	switch role {
	case domain.RoleUser:
		if s.users == nil {
			return nil, nil
		}
		account, err := s.users.GetUserProfile(ctx)
		if err != nil {
			return nil, fmt.Errorf("get user profile: %w", err)
		}
		return account, nil
	case domain.RoleProvider:
		if s.providers == nil {
			return nil, nil
		}
		p, err := s.providers.GetProviderProfile(ctx)
		if err != nil {
			return nil, fmt.Errorf("get provider profile: %w", err)
		}
		if p == nil {
			return nil, nil
		}
		return &domain.Account{ID: p.ID, Name: p.Name, Email: p.Email}, nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
}

// HandleUnauthorized clears the role's session after the backend rejected its token.
// The API client calls this on every 401 response.
func (s *SessionService) HandleUnauthorized(role domain.Role) {
	logger.Warn("%s token rejected by backend, signing out", role)
	if err := s.clear(context.Background(), role); err != nil {
		logger.Error("clear %s session: %v", role, err)
	}
}

func (s *SessionService) clear(ctx context.Context, role domain.Role) error {
	s.set(role, nil)
	if err := s.store.Delete(ctx, role.TokenKey()); err != nil {
		return fmt.Errorf("delete %s token: %w", role, err)
	}
	if err := s.store.Delete(ctx, role.ProfileKey()); err != nil {
		return fmt.Errorf("delete %s account: %w", role, err)
	}
	return nil
}

func (s *SessionService) set(role domain.Role, session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		delete(s.sessions, role)
		return
	}
	s.sessions[role] = session
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
