// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/input"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/core/services"
)

// Mode tracks whether the view is browsing keys or editing one.
type Mode int

const (
	ModeList Mode = iota
	ModeEdit
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// notSet is how unset values are displayed.
const notSet = "(not set)"

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	values   map[string]string
	keys     []string
	err      error
	notice   string

	mode     Mode
	selected int
	editor   *input.Field

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	var keys []string
	if settingsService != nil {
		keys = settingsService.Keys()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		keys:            keys,
		values:          map[string]string{},
		editor:          input.NewField(s, "Value: ", ""),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	v.mode = ModeList
	v.notice = ""
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.values = services.SettingValues(msg.Settings)
		v.err = nil
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		// Reload settings after save
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.mode == ModeEdit {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	if v.mode == ModeEdit {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		if len(v.keys) == 0 {
			return v, nil
		}
		v.startEdit()
	case "d":
		return v, v.restoreDefault()
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.mode = ModeList
		v.editor.Blur()
		return v, nil
	case keyEnter:
		v.mode = ModeList
		v.editor.Blur()
		return v, v.set(v.SelectedKey(), strings.TrimSpace(v.editor.Value()))
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// startEdit opens the editor on the selected key. The maps key starts empty
// because only its masked form is known.
func (v *View) startEdit() {
	key := v.SelectedKey()
	v.mode = ModeEdit
	v.notice = ""
	v.editor.Reset()
	if key != services.KeyMapsAPIKey && v.settings != nil {
		v.editor.SetValue(editValue(v.settings, key))
	}
	v.editor.Focus()
}

// editValue returns the value of key in the form Set accepts.
func editValue(s *domain.AppSettings, key string) string {
	if key == services.KeyLocationProvider {
		return s.Location.Provider.String()
	}
	value := services.SettingValues(s)[key]
	if value == notSet {
		return ""
	}
	return value
}

// restoreDefault sets the selected key back to its default value.
func (v *View) restoreDefault() tea.Cmd {
	if v.settingsService == nil || len(v.keys) == 0 {
		return nil
	}
	defaults := v.settingsService.GetDefaults()
	return v.set(v.SelectedKey(), editValue(&defaults, v.SelectedKey()))
}

func (v *View) set(key, value string) tea.Cmd {
	svc := v.settingsService
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	width := 0
	for _, key := range v.keys {
		if len(key) > width {
			width = len(key)
		}
	}
	for i, key := range v.keys {
		line := fmt.Sprintf("%-*s  %s", width, key, v.values[key])
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if v.mode == ModeEdit {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Editing " + v.SelectedKey()))
		b.WriteString("\n")
		b.WriteString(v.editor.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	if v.mode == ModeEdit {
		b.WriteString(v.styles.Help.Render("enter save • esc cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("↑/↓ select • enter edit • d default • esc back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.editor.SetWidth(width - 4)
}

// SelectedKey returns the highlighted setting key, or "".
func (v *View) SelectedKey() string {
	if v.selected < len(v.keys) {
		return v.keys[v.selected]
	}
	return ""
}

// Mode returns whether the view is listing or editing.
func (v *View) Mode() Mode {
	return v.mode
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}
