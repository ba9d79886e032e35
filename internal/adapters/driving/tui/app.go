package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/mapview"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/keymap"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/views/account"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/views/browse"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/views/detail"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/views/menu"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/views/picker"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/views/profile"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/views/settings"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView     *menu.View
	browseView   *browse.View
	detailView   *detail.View
	pickerView   *picker.View
	profileView  *profile.View
	accountView  *account.View
	settingsView *settings.View

	// browseMap shows providers and the user; pickerMap shows the provider pin.
	browseMap *mapview.Map
	pickerMap *mapview.Map

	// bridge delivers browser snapshots into the update loop.
	bridge *snapshotBridge

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports. The maps are
// attached to MapSync and the picker here, so both start drawing at once.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	center := domain.DefaultLocation
	if ports.MapSync != nil {
		center = ports.MapSync.Center()
	}
	browseMap := mapview.New(s, center)
	if ports.MapSync != nil {
		ports.MapSync.Attach(browseMap)
	}
	pickerMap := mapview.New(s, domain.DefaultLocation)
	if ports.Picker != nil {
		ports.Picker.Attach(pickerMap)
	}

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s, nil),
		browseView:   browse.NewView(s, km, ports.Browser, ports.Categories, ports.Location, browseMap),
		detailView:   detail.NewView(s, km, ports.Detail, ports.ImageBaseURL),
		pickerView:   picker.NewView(s, km, ports.Picker, pickerMap),
		profileView:  profile.NewView(s, km, ports.Profile),
		accountView:  account.NewView(s, km, ports.Sessions),
		settingsView: settings.NewView(s, ports.Settings),
		browseMap:    browseMap,
		pickerMap:    pickerMap,
		bridge:       newSnapshotBridge(ports.Browser.Subscribe),
		currentView:  messages.ViewMenu, // Start with menu
	}
	a.refreshSessions()
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.browseView.WithContext(ctx)
	a.detailView.WithContext(ctx)
	a.pickerView.WithContext(ctx)
	a.profileView.WithContext(ctx)
	a.accountView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It starts the snapshot and picker listeners and loads the saved provider pin.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("localfinder - Local services near you"),
		a.bridge.wait(),
		waitReloaded(a.ports.Reloaded),
		a.loadSavedLocation(),
	)
}

// loadSavedLocation shows the logged-in provider's pin on the browse map.
func (a *App) loadSavedLocation() tea.Cmd {
	if a.ports.MapSync == nil {
		return nil
	}
	ms, ctx := a.ports.MapSync, a.ctx
	return func() tea.Msg {
		if err := ms.LoadSavedLocation(ctx); err != nil {
			logger.Debug("no saved provider location: %v", err)
		}
		return nil
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			a.bridge.close()
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.show(msg.View)

	case messages.BrowseUpdated:
		a.browseView, cmd = a.browseView.Update(msg)
		return a, tea.Batch(cmd, a.bridge.wait())

	case messages.CategoriesLoaded, messages.Located:
		a.browseView, cmd = a.browseView.Update(msg)
		return a, cmd

	case messages.ProviderSelected:
		a.currentView = messages.ViewDetail
		return a, a.detailView.Open(msg.ID)

	case messages.DetailLoaded, messages.Rated:
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd

	case messages.PickerUpdated:
		a.pickerView, cmd = a.pickerView.Update(msg)
		return a, cmd

	case messages.PickerReloaded:
		a.pickerView, cmd = a.pickerView.Update(msg)
		return a, tea.Batch(cmd, waitReloaded(a.ports.Reloaded))

	case messages.ProfileLoaded, messages.ProfileSaved:
		a.profileView, cmd = a.profileView.Update(msg)
		return a, cmd

	case messages.SessionChanged:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.refreshSessions()
		a.accountView, cmd = a.accountView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil {
			a.detailView.SetImageBase(msg.Settings.API.ImageBaseURL)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewBrowse {
			a.browseView, cmd = a.browseView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		a.bridge.close()
		return a, tea.Quit
	}

	// Forward other messages to active view
	return a, a.updateCurrent(msg)
}

// show switches to view and runs its initialisation. Returning from the
// detail dialog keeps the browse view as it was.
func (a *App) show(view messages.ViewType) tea.Cmd {
	previous := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewMenu:
		a.refreshSessions()
	case messages.ViewBrowse:
		if previous == messages.ViewDetail {
			return nil
		}
		return a.browseView.Init()
	case messages.ViewPicker:
		return a.pickerView.Init()
	case messages.ViewProfile:
		return a.profileView.Init()
	case messages.ViewAccount:
		return a.accountView.Init()
	case messages.ViewSettings:
		return a.settingsView.Init()
	case messages.ViewDetail, messages.ViewHelp:
		// Detail is opened through ProviderSelected; help is static.
	}
	return nil
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewBrowse:
		a.browseView, cmd = a.browseView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewPicker:
		a.pickerView, cmd = a.pickerView.Update(msg)
	case messages.ViewProfile:
		a.profileView, cmd = a.profileView.Update(msg)
	case messages.ViewAccount:
		a.accountView, cmd = a.accountView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Esc from help goes to menu
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// refreshSessions shows who is logged in on the menu header.
func (a *App) refreshSessions() {
	for _, role := range domain.Roles() {
		a.menuView.SetSession(role, a.ports.Sessions.Current(role))
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewBrowse:
		return a.browseView.View()
	case messages.ViewDetail:
		return a.detailView.View()
	case messages.ViewPicker:
		return a.pickerView.View()
	case messages.ViewProfile:
		return a.profileView.View()
	case messages.ViewAccount:
		return a.accountView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Find providers:
  (type)      Search by name or service
  tab         Switch between search, list and map
  [ ]  ←/→    Previous / next category
  enter       Open provider details
  L           Use my location
  r           Refresh

Map:
  ←↑↓→ hjkl   Move the cursor
  + -         Zoom
  enter       Open the provider under the cursor

Provider details:
  1-5         Rate the provider

My location:
  enter       Drop the pin at the cursor
  /           Find a place
  a           Edit the address
  ctrl+s      Save

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.bridge.close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.browseView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.pickerView.SetDimensions(width, height)
	a.profileView.SetDimensions(width, height)
	a.accountView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
