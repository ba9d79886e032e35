package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/adapters/driven/storage/memory"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

func TestSessionService_Login_PersistsSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	auth := &mockAuthAPI{result: &domain.AuthResult{
		Token:   "tok",
		Account: domain.Account{ID: "u1", Name: "Asha"},
	}}
	svc := NewSessionService(store, auth, nil)

	session, err := svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: " asha@example.com ", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, session.Role)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, "Asha", session.Account.Name)
	assert.Equal(t, "asha@example.com", session.Account.Email, "email falls back to the input")
	assert.Equal(t, "asha@example.com", auth.lastCreds.Email)

	token, ok, _ := store.Get(ctx, "token")
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	raw, ok, _ := store.Get(ctx, "user")
	require.True(t, ok)
	var account domain.Account
	require.NoError(t, json.Unmarshal([]byte(raw), &account))
	assert.Equal(t, "u1", account.ID)

	assert.Equal(t, "tok", svc.Token(domain.RoleUser))
	assert.Empty(t, svc.Token(domain.RoleProvider))
}

func TestSessionService_Login_NameFallsBackToEmail(t *testing.T) {
	svc := NewSessionService(memory.NewKeyValueStore(), &mockAuthAPI{result: &domain.AuthResult{Token: "t"}}, nil)

	session, err := svc.Login(context.Background(), domain.RoleProvider, domain.Credentials{Email: "ravi@x.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "Ravi", session.Account.Name)
	assert.Equal(t, domain.RoleProvider, svc.Current(domain.RoleProvider).Role)
	assert.Nil(t, svc.Current(domain.RoleUser))
}

func TestSessionService_Login_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	svc := NewSessionService(memory.NewKeyValueStore(), &mockAuthAPI{err: boom}, nil)
	_, err := svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, boom)

	_, err = svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: "", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Login(ctx, domain.Role("admin"), domain.Credentials{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	svc = NewSessionService(memory.NewKeyValueStore(), &mockAuthAPI{result: &domain.AuthResult{}}, nil)
	_, err = svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: "a@b.c", Password: "pw"})
	assert.Error(t, err)
	assert.Nil(t, svc.Current(domain.RoleUser))
}

func TestSessionService_SignupUser(t *testing.T) {
	auth := &mockAuthAPI{result: &domain.AuthResult{Token: "t"}}
	svc := NewSessionService(memory.NewKeyValueStore(), auth, nil)

	session, err := svc.SignupUser(context.Background(), domain.UserSignup{
		FirstName: "Asha", LastName: "Rao", Email: "asha@x.com", Password: "Passw0rd",
	})

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Asha Rao", session.Account.Name)
	assert.Equal(t, "asha@x.com", auth.lastUser.Email)
}

func TestSessionService_SignupWithoutToken(t *testing.T) {
	auth := &mockAuthAPI{result: &domain.AuthResult{}}
	svc := NewSessionService(memory.NewKeyValueStore(), auth, nil)

	session, err := svc.SignupProvider(context.Background(), domain.ProviderSignup{Email: "p@x.com", Password: "Passw0rd"})

	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Nil(t, svc.Current(domain.RoleProvider))
}

func TestSessionService_SignupValidation(t *testing.T) {
	svc := NewSessionService(memory.NewKeyValueStore(), &mockAuthAPI{}, nil)

	_, err := svc.SignupUser(context.Background(), domain.UserSignup{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SignupProvider(context.Background(), domain.ProviderSignup{Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionService_Logout_ClearsStorage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	svc := NewSessionService(store, &mockAuthAPI{result: &domain.AuthResult{Token: "t"}}, nil)
	_, err := svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, domain.RoleUser))

	assert.Nil(t, svc.Current(domain.RoleUser))
	_, ok, _ := store.Get(ctx, "token")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "user")
	assert.False(t, ok)
}

func TestSessionService_HandleUnauthorized_OnlyClearsRole(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	svc := NewSessionService(store, &mockAuthAPI{result: &domain.AuthResult{Token: "t"}}, nil)
	_, _ = svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: "a@b.c", Password: "pw"})
	_, _ = svc.Login(ctx, domain.RoleProvider, domain.Credentials{Email: "p@b.c", Password: "pw"})

	svc.HandleUnauthorized(domain.RoleProvider)

	assert.Nil(t, svc.Current(domain.RoleProvider))
	assert.NotNil(t, svc.Current(domain.RoleUser))
	_, ok, _ := store.Get(ctx, "providerToken")
	assert.False(t, ok)
}

func TestSessionService_Restore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	require.NoError(t, store.Set(ctx, "token", "valid"))
	require.NoError(t, store.Set(ctx, "user", `{"id":"u1","name":"Asha","email":"a@x.com"}`))
	require.NoError(t, store.Set(ctx, "providerToken", "expired"))
	require.NoError(t, store.Set(ctx, "provider", `{"email":"p@x.com"}`))

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inspector := &mockInspector{expiries: map[string]time.Time{
		"valid":   now.Add(time.Hour),
		"expired": now.Add(-time.Hour),
	}}
	svc := NewSessionService(store, &mockAuthAPI{}, inspector)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.Restore(ctx))

	user := svc.Current(domain.RoleUser)
	require.NotNil(t, user)
	assert.Equal(t, "Asha", user.Account.Name)
	assert.Equal(t, "valid", user.Token)

	assert.Nil(t, svc.Current(domain.RoleProvider))
	_, ok, _ := store.Get(ctx, "providerToken")
	assert.False(t, ok, "expired token is removed from storage")
}

func TestSessionService_Refresh_FollowsStorage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	svc := NewSessionService(store, &mockAuthAPI{}, nil)
	require.NoError(t, svc.Restore(ctx))
	assert.Nil(t, svc.Current(domain.RoleProvider))

	require.NoError(t, store.Set(ctx, "providerToken", "from-other-process"))
	require.NoError(t, svc.Refresh(ctx, domain.RoleProvider))
	assert.Equal(t, "from-other-process", svc.Token(domain.RoleProvider))

	require.NoError(t, store.Delete(ctx, "providerToken"))
	require.NoError(t, svc.Refresh(ctx, domain.RoleProvider))
	assert.Nil(t, svc.Current(domain.RoleProvider))
}

func TestSessionService_Restore_FillsIDFromTokenSubject(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	require.NoError(t, store.Set(ctx, "token", "jwt"))
	require.NoError(t, store.Set(ctx, "user", `{"name":"Asha","email":"a@x.com"}`))
	inspector := &mockInspector{subjects: map[string]string{"jwt": "u1"}}
	svc := NewSessionService(store, &mockAuthAPI{}, inspector)

	require.NoError(t, svc.Restore(ctx))

	require.NotNil(t, svc.Current(domain.RoleUser))
	assert.Equal(t, "u1", svc.Current(domain.RoleUser).Account.ID)
}

func TestSessionService_SyncAccount_User(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKeyValueStore()
	svc := NewSessionService(store, &mockAuthAPI{result: &domain.AuthResult{Token: "t"}}, nil)
	_, err := svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: "asha@x.com", Password: "pw"})
	require.NoError(t, err)
	users := &mockUserAPI{profile: &domain.Account{ID: "u1", Name: "Asha Rao"}}
	svc.UseProfiles(users, nil)

	session, err := svc.SyncAccount(ctx, domain.RoleUser)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, domain.Account{ID: "u1", Name: "Asha Rao", Email: "asha@x.com"}, session.Account)
	assert.Equal(t, session.Account, svc.Current(domain.RoleUser).Account)

	raw, ok, _ := store.Get(ctx, "user")
	require.True(t, ok)
	var cached domain.Account
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, session.Account, cached)
}

func TestSessionService_SyncAccount_Provider(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(memory.NewKeyValueStore(), &mockAuthAPI{result: &domain.AuthResult{Token: "t"}}, nil)
	_, err := svc.Login(ctx, domain.RoleProvider, domain.Credentials{Email: "ravi@x.com", Password: "pw"})
	require.NoError(t, err)
	svc.UseProfiles(nil, &mockProviderAPI{profile: &domain.Provider{ID: "p1", Name: "Ravi Electricals"}})

	session, err := svc.SyncAccount(ctx, domain.RoleProvider)

	require.NoError(t, err)
	assert.Equal(t, domain.Account{ID: "p1", Name: "Ravi Electricals", Email: "ravi@x.com"}, session.Account)
}

func TestSessionService_SyncAccount_SignedOut(t *testing.T) {
	svc := NewSessionService(memory.NewKeyValueStore(), &mockAuthAPI{}, nil)
	users := &mockUserAPI{profile: &domain.Account{ID: "u1"}}
	svc.UseProfiles(users, nil)

	session, err := svc.SyncAccount(context.Background(), domain.RoleUser)

	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Empty(t, users.Calls())
}

func TestSessionService_SyncAccount_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(memory.NewKeyValueStore(), &mockAuthAPI{result: &domain.AuthResult{Token: "t"}}, nil)
	_, err := svc.Login(ctx, domain.RoleUser, domain.Credentials{Email: "asha@x.com", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, domain.RoleProvider, domain.Credentials{Email: "ravi@x.com", Password: "pw"})
	require.NoError(t, err)
	svc.UseProfiles(&mockUserAPI{}, &mockProviderAPI{profileErr: domain.ErrUnauthorized})

	session, err := svc.SyncAccount(ctx, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NotNil(t, session, "cached session is kept")
	assert.Equal(t, "asha@x.com", session.Account.Email)

	session, err = svc.SyncAccount(ctx, domain.RoleProvider)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, session)
}
