package account

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// MockSessionService is a mock implementation of driving.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Current(role domain.Role) *domain.Session {
	args := m.Called(role)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Session)
}

func (m *MockSessionService) Token(role domain.Role) string {
	return m.Called(role).String(0)
}

func (m *MockSessionService) Login(ctx context.Context, role domain.Role, creds domain.Credentials) (*domain.Session, error) {
	args := m.Called(ctx, role, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionService) SignupUser(ctx context.Context, form domain.UserSignup) (*domain.Session, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionService) SignupProvider(ctx context.Context, form domain.ProviderSignup) (*domain.Session, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, role domain.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockSessionService) SyncAccount(ctx context.Context, role domain.Role) (*domain.Session, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func providerSession() *domain.Session {
	return &domain.Session{
		Role:    domain.RoleProvider,
		Account: domain.Account{ID: "p1", Name: "Asha", Email: "asha@example.com"},
		Token:   "tok",
	}
}

func newTestView(svc *MockSessionService) *View {
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)
	v.Init()
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, "Initialising...", v.View())
	assert.Equal(t, domain.RoleUser, v.Role())
	assert.Equal(t, RowRole, v.Row())
}

func TestRoleSelection(t *testing.T) {
	v := newTestView(&MockSessionService{})

	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, domain.RoleProvider, v.Role())
	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, domain.RoleUser, v.Role())
	v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, domain.RoleProvider, v.Role())
}

func TestRows_Cycle(t *testing.T) {
	v := newTestView(&MockSessionService{})

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, RowEmail, v.Row())
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, RowPassword, v.Row())
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, RowRole, v.Row())
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, RowPassword, v.Row())
}

func TestTyping_FillsEmail(t *testing.T) {
	v := newTestView(&MockSessionService{})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a@b.co")})

	assert.Equal(t, "a@b.co", v.email.Value())
}

func TestLogin_Success(t *testing.T) {
	svc := &MockSessionService{}
	creds := domain.Credentials{Email: "asha@example.com", Password: "Secret1!"}
	svc.On("Login", mock.Anything, domain.RoleProvider, creds).Return(providerSession(), nil).Once()
	svc.On("Current", domain.RoleUser).Return(nil)
	svc.On("Current", domain.RoleProvider).Return(providerSession())
	v := newTestView(svc)
	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	v.SetCredentials("  asha@example.com ", "Secret1!")
	v.setRow(RowPassword)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "Logging in...", v.Message())

	msg := cmd()
	assert.Equal(t, messages.SessionChanged{Role: domain.RoleProvider, Session: providerSession()}, msg)
	v.Update(msg)

	assert.Equal(t, "Logged in as asha@example.com", v.Message())
	assert.Empty(t, v.password.Value())
	assert.Contains(t, v.View(), "Provider: asha@example.com")
	svc.AssertExpectations(t)
}

func TestLogin_Validation(t *testing.T) {
	svc := &MockSessionService{}
	v := newTestView(svc)
	v.SetCredentials("not-an-email", "")
	v.setRow(RowPassword)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "Please enter a valid email address", v.email.Error())
	assert.Equal(t, "Password is required", v.password.Error())
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_Rejected(t *testing.T) {
	v := newTestView(&MockSessionService{})

	v.Update(messages.SessionChanged{Role: domain.RoleUser, Err: fmt.Errorf("login: %w", domain.ErrUnauthorized)})

	assert.Equal(t, forms.MsgSessionExpired, v.Message())
}

func TestLogout(t *testing.T) {
	svc := &MockSessionService{}
	svc.On("Current", domain.RoleProvider).Return(providerSession())
	svc.On("Logout", mock.Anything, domain.RoleProvider).Return(nil).Once()
	v := newTestView(svc)
	v.Update(tea.KeyMsg{Type: tea.KeyRight})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, "Logged out of provider account", v.Message())
	svc.AssertExpectations(t)
}

func TestLogout_NotLoggedIn(t *testing.T) {
	svc := &MockSessionService{}
	svc.On("Current", domain.RoleUser).Return(nil)
	v := newTestView(svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlX})

	assert.Nil(t, cmd)
	assert.Equal(t, "Not logged in as user", v.Message())
}

func TestEsc_ReturnsToMenu(t *testing.T) {
	v := newTestView(&MockSessionService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
