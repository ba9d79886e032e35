package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/services"
)

// execute runs the root command with svc configured and stdin as input.
// Flags are reset first because cobra keeps their values between runs.
func execute(t *testing.T, svc Services, stdin string, args ...string) (string, error) {
	t.Helper()
	Configure(svc)
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		Configure(Services{})
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// fakeSessions is an in-memory driving.SessionService.
type fakeSessions struct {
	sessions map[domain.Role]*domain.Session
	err      error

	creds          domain.Credentials
	userSignup     *domain.UserSignup
	providerSignup *domain.ProviderSignup
	loggedOut      []domain.Role

	synced  *domain.Account
	syncErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[domain.Role]*domain.Session{}}
}

func (f *fakeSessions) Current(role domain.Role) *domain.Session {
	return f.sessions[role]
}

func (f *fakeSessions) Token(role domain.Role) string {
	if s := f.sessions[role]; s != nil {
		return s.Token
	}
	return ""
}

func (f *fakeSessions) Login(_ context.Context, role domain.Role, creds domain.Credentials) (*domain.Session, error) {
	f.creds = creds
	if f.err != nil {
		return nil, f.err
	}
	s := &domain.Session{Role: role, Account: domain.Account{Name: "Asha", Email: creds.Email}, Token: "tok"}
	f.sessions[role] = s
	return s, nil
}

func (f *fakeSessions) SignupUser(_ context.Context, form domain.UserSignup) (*domain.Session, error) {
	f.userSignup = &form
	if f.err != nil {
		return nil, f.err
	}
	s := &domain.Session{Role: domain.RoleUser, Account: domain.Account{Name: form.FullName(), Email: form.Email}, Token: "tok"}
	f.sessions[domain.RoleUser] = s
	return s, nil
}

func (f *fakeSessions) SignupProvider(_ context.Context, form domain.ProviderSignup) (*domain.Session, error) {
	f.providerSignup = &form
	return nil, f.err
}

func (f *fakeSessions) Logout(_ context.Context, role domain.Role) error {
	f.loggedOut = append(f.loggedOut, role)
	delete(f.sessions, role)
	return f.err
}

func (f *fakeSessions) SyncAccount(_ context.Context, role domain.Role) (*domain.Session, error) {
	s := f.sessions[role]
	if s == nil {
		return nil, nil
	}
	if f.syncErr != nil {
		return s, f.syncErr
	}
	if f.synced != nil {
		s.Account = *f.synced
	}
	return s, nil
}

// fakeBrowser records the filter of one-off fetches.
type fakeBrowser struct {
	providers []domain.Provider
	err       error
	filter    domain.FilterState
}

func (f *fakeBrowser) SetQuery(string)             {}
func (f *fakeBrowser) SetCategory(string)          {}
func (f *fakeBrowser) SetOrigin(domain.Point)      {}
func (f *fakeBrowser) Refresh()                    {}
func (f *fakeBrowser) PatchRating(string, float64) {}
func (f *fakeBrowser) Close()                      {}

func (f *fakeBrowser) Snapshot() domain.BrowseSnapshot {
	return domain.BrowseSnapshot{}
}

func (f *fakeBrowser) Subscribe(func(domain.BrowseSnapshot)) func() {
	return func() {}
}

func (f *fakeBrowser) Fetch(_ context.Context, filter domain.FilterState) ([]domain.Provider, error) {
	f.filter = filter
	return f.providers, f.err
}

// fakeCategories returns fixed categories.
type fakeCategories struct {
	categories []domain.Category
	err        error
}

func (f *fakeCategories) Load(context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategories) Categories() []domain.Category {
	return f.categories
}

// fakeDetail serves providers by id.
type fakeDetail struct {
	providers map[string]domain.Provider
	average   float64
	err       error
	rated     int
	state     domain.DetailState
}

func (f *fakeDetail) Open(_ context.Context, id string) domain.DetailState {
	p, ok := f.providers[id]
	if !ok {
		f.state = domain.DetailState{Status: domain.DetailEmpty, ProviderID: id}
	} else {
		f.state = domain.DetailState{Status: domain.DetailLoaded, ProviderID: id, Provider: &p}
	}
	return f.state
}

func (f *fakeDetail) Rate(_ context.Context, rating int) (float64, error) {
	f.rated = rating
	return f.average, f.err
}

func (f *fakeDetail) State() domain.DetailState { return f.state }
func (f *fakeDetail) Close()                    { f.state = domain.DetailState{} }

// fakeLocation returns a fixed position.
type fakeLocation struct {
	point domain.Point
	err   error
}

func (f *fakeLocation) UseMyLocation(context.Context) (domain.Point, error) {
	return f.point, f.err
}

func (f *fakeLocation) Current() *domain.Point {
	if f.err != nil {
		return nil
	}
	return &f.point
}

// fakeProfile stores the provider profile.
type fakeProfile struct {
	provider *domain.Provider
	err      error
	update   *domain.ProfileUpdate
}

func (f *fakeProfile) Get(context.Context) (*domain.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.provider
	return &p, nil
}

func (f *fakeProfile) Update(_ context.Context, u domain.ProfileUpdate) (*domain.Provider, error) {
	f.update = &u
	if f.err != nil {
		return nil, f.err
	}
	f.provider.Name = u.Name
	f.provider.Mobile = u.Mobile
	f.provider.Category = u.Category
	f.provider.Description = u.Description
	f.provider.Price = u.Price
	return f.Get(context.Background())
}

// fakePicker keeps picker state in memory.
type fakePicker struct {
	state    domain.PickerState
	place    domain.Place
	pickErr  error
	saveErr  error
	reloaded int
}

func (f *fakePicker) Start(context.Context) error { return nil }

func (f *fakePicker) Reload(context.Context) error {
	f.reloaded++
	return nil
}

func (f *fakePicker) Pick(_ context.Context, p domain.Point) error {
	f.state.Position = p
	f.state.Address = p.String()
	return f.pickErr
}

func (f *fakePicker) SearchPlace(context.Context, string) (domain.Place, error) {
	f.state.Position = f.place.Location
	f.state.Address = f.place.FormattedAddress
	return f.place, nil
}

func (f *fakePicker) SetAddress(address string) { f.state.Address = address }

func (f *fakePicker) Save(context.Context) (string, error) {
	if f.saveErr != nil {
		return services.MsgLocationSaveFailed, f.saveErr
	}
	f.state.Saved = &domain.ProviderLocation{Point: f.state.Position, Address: f.state.Address}
	return services.MsgLocationSaved, nil
}

func (f *fakePicker) State() domain.PickerState { return f.state }
func (f *fakePicker) Attach(driven.MapSurface)  {}

// fakeSettings keeps settings in memory and applies Set through the real key table.
type fakeSettings struct {
	settings domain.AppSettings
	err      error
	set      map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (f *fakeSettings) Get() (*domain.AppSettings, error) {
	s := f.settings
	return &s, nil
}

func (f *fakeSettings) Save(s *domain.AppSettings) error {
	f.settings = *s
	return nil
}

func (f *fakeSettings) Set(key, value string) error {
	if f.err != nil {
		return f.err
	}
	f.set[key] = value
	return nil
}

func (f *fakeSettings) Keys() []string {
	return []string{services.KeyAPIBaseURL, services.KeyMapsAPIKey}
}

func (f *fakeSettings) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
