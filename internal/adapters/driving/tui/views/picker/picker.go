// Package picker provides the view where a provider places their business on the map.
package picker

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/input"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/mapview"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/keymap"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
)

// Focus identifies the control receiving keys.
type Focus int

const (
	FocusMap Focus = iota
	FocusSearch
	FocusAddress
)

// View is the provider location picker.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	picker  driving.LocationPicker
	mapv    *mapview.Map
	search  *input.Field
	address *input.Field
	ctx     context.Context

	state   domain.PickerState
	focus   Focus
	message string
	failed  bool

	width  int
	height int
	ready  bool
}

// NewView creates the picker view. mapv must already be attached to picker.
func NewView(s *styles.Styles, km *keymap.KeyMap, picker driving.LocationPicker, mapv *mapview.Map) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if mapv == nil {
		mapv = mapview.New(s, domain.DefaultLocation)
	}
	return &View{
		styles:  s,
		keymap:  km,
		picker:  picker,
		mapv:    mapv,
		search:  input.NewField(s, "Find place: ", "Area, landmark or address"),
		address: input.NewField(s, "Address:    ", "Shown to customers"),
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the map and reloads the saved location.
func (v *View) Init() tea.Cmd {
	v.setFocus(FocusMap)
	v.message = ""
	v.failed = false
	if v.picker == nil {
		return nil
	}
	v.state.Busy = true

	p, ctx := v.picker, v.ctx
	return func() tea.Msg {
		err := p.Reload(ctx)
		return messages.PickerUpdated{State: p.State(), Err: err}
	}
}

// Update handles messages for the picker view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PickerUpdated:
		v.state = msg.State
		switch {
		case msg.Err != nil:
			v.failed = true
			v.message = forms.Describe(msg.Err)
			if msg.Message != "" {
				v.message = msg.Message + ": " + v.message
			}
		case msg.Message != "":
			v.failed = false
			v.message = msg.Message
		}
		return v, nil

	case messages.PickerReloaded:
		if v.picker != nil {
			v.state = v.picker.State()
		}
		v.failed = false
		v.message = "Provider account changed, location reloaded"
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	switch v.focus {
	case FocusSearch:
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	case FocusAddress:
		var cmd tea.Cmd
		v.address, cmd = v.address.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	if keymap.Matches(key, v.keymap.Save) {
		return v, v.save()
	}

	switch v.focus {
	case FocusSearch:
		switch msg.Type {
		case tea.KeyEsc:
			v.setFocus(FocusMap)
			return v, nil
		case tea.KeyEnter:
			text := v.search.Value()
			v.setFocus(FocusMap)
			return v, v.searchPlace(text)
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd

	case FocusAddress:
		switch msg.Type {
		case tea.KeyEsc:
			v.setFocus(FocusMap)
			return v, nil
		case tea.KeyEnter:
			v.setAddress(v.address.Value())
			v.setFocus(FocusMap)
			return v, nil
		}
		var cmd tea.Cmd
		v.address, cmd = v.address.Update(msg)
		return v, cmd
	}

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case msg.Type == tea.KeyEnter:
		return v, v.click()
	case keymap.Matches(key, v.keymap.Find):
		v.search.Reset()
		v.setFocus(FocusSearch)
		return v, nil
	case key == "a":
		v.address.SetValue(v.state.Address)
		v.setFocus(FocusAddress)
		return v, nil
	}
	var cmd tea.Cmd
	v.mapv, cmd = v.mapv.Update(msg)
	return v, cmd
}

// click drops the pin at the map cursor through the map's click handler.
func (v *View) click() tea.Cmd {
	if v.picker == nil {
		return nil
	}
	m, p := v.mapv, v.picker
	if !m.HasClickHandler() {
		ctx := v.ctx
		return func() tea.Msg {
			err := p.Pick(ctx, m.CursorPoint())
			return messages.PickerUpdated{State: p.State(), Err: err}
		}
	}
	return func() tea.Msg {
		m.Click()
		return messages.PickerUpdated{State: p.State()}
	}
}

func (v *View) searchPlace(text string) tea.Cmd {
	if v.picker == nil {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		v.failed = true
		v.message = "Enter a place to search for"
		return nil
	}
	v.failed = false
	v.message = "Searching..."

	p, ctx := v.picker, v.ctx
	return func() tea.Msg {
		place, err := p.SearchPlace(ctx, text)
		if err != nil {
			return messages.PickerUpdated{State: p.State(), Err: err}
		}
		return messages.PickerUpdated{State: p.State(), Message: "Moved to " + place.Name}
	}
}

func (v *View) setAddress(address string) {
	if v.picker == nil {
		return
	}
	address = strings.TrimSpace(address)
	if address == "" {
		v.failed = true
		v.message = "Address cannot be empty"
		return
	}
	v.picker.SetAddress(address)
	v.state = v.picker.State()
	v.failed = false
	v.message = "Address updated. Press ctrl+s to save"
}

func (v *View) save() tea.Cmd {
	if v.picker == nil || v.state.Busy {
		return nil
	}
	v.state.Busy = true
	v.failed = false
	v.message = "Saving..."

	p, ctx := v.picker, v.ctx
	return func() tea.Msg {
		msg, err := p.Save(ctx)
		return messages.PickerUpdated{State: p.State(), Message: msg, Err: err}
	}
}

func (v *View) setFocus(f Focus) {
	v.focus = f
	v.mapv.SetFocused(f == FocusMap)
	if f == FocusSearch {
		v.search.Focus()
	} else {
		v.search.Blur()
	}
	if f == FocusAddress {
		v.address.Focus()
	} else {
		v.address.Blur()
	}
}

// View renders the picker.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("My location"))
	b.WriteString("\n")
	b.WriteString(v.styles.Border.Render(v.mapv.View()))
	b.WriteString("\n")

	pin := v.state.Address
	if v.state.Busy {
		pin = "loading..."
	}
	b.WriteString(v.styles.Muted.Render("Pin:   "))
	b.WriteString(v.styles.Normal.Render(pin))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Saved: "))
	if v.state.Saved != nil {
		b.WriteString(v.styles.Normal.Render(v.state.Saved.Address))
	} else {
		b.WriteString(v.styles.Muted.Render("not set"))
	}
	b.WriteString("\n")

	switch v.focus {
	case FocusSearch:
		b.WriteString(v.search.View())
		b.WriteString("\n")
	case FocusAddress:
		b.WriteString(v.address.View())
		b.WriteString("\n")
	}

	if v.message != "" {
		if v.failed {
			b.WriteString(v.styles.Error.Render(v.message))
		} else {
			b.WriteString(v.styles.Success.Render(v.message))
		}
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("enter drop pin • / find place • a edit address • ctrl+s save • esc back"))
	return b.String()
}

// SetDimensions sizes the map to fill the space above the controls.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.search.SetWidth(width - 4)
	v.address.SetWidth(width - 4)
	v.mapv.SetDimensions(width-4, height-14)
}

// Focus returns the control receiving keys.
func (v *View) Focus() Focus {
	return v.focus
}

// State returns the last known picker state.
func (v *View) State() domain.PickerState {
	return v.state
}

// Message returns the last outcome shown to the user.
func (v *View) Message() string {
	return v.message
}
