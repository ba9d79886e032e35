// Package browse provides the provider search view: a query box, the
// category bar, the provider list and the map.
package browse

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/input"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/list"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/mapview"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/status"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/keymap"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
)

// Focus identifies the pane receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusList
	FocusMap
)

// sideBySideWidth is the terminal width from which list and map share a row.
const sideBySideWidth = 100

// View is the provider search view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	list      *list.ProviderList
	mapv      *mapview.Map
	statusbar *status.Bar

	browser    driving.Browser
	categories driving.CategoryService
	location   driving.LocationService
	ctx        context.Context

	cats     []domain.Category
	category int
	snapshot domain.BrowseSnapshot
	started  bool
	focus    Focus

	width  int
	height int
	ready  bool
}

// NewView creates the browse view. categories, location and mapv may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	browser driving.Browser,
	categories driving.CategoryService,
	location driving.LocationService,
	mapv *mapview.Map,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewProviderList(s),
		mapv:       mapv,
		statusbar:  status.NewBar(s, km),
		browser:    browser,
		categories: categories,
		location:   location,
		ctx:        context.Background(),
		cats:       domain.DefaultCategories(),
		width:      80,
		height:     24,
	}
	v.statusbar.SetHints(km.BrowseHelp())
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the query box. The first call also loads categories and
// issues the initial listing.
func (v *View) Init() tea.Cmd {
	v.setFocus(FocusInput)
	cmds := []tea.Cmd{v.input.Init()}
	if !v.started {
		v.started = true
		cmds = append(cmds, v.loadCategories(), v.refresh())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the browse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.BrowseUpdated:
		v.applySnapshot(msg.Snapshot)
		return v, nil

	case messages.CategoriesLoaded:
		v.setCategories(msg.Categories)
		if msg.Err != nil {
			v.statusbar.Show(status.StateError, "category counts unavailable: "+forms.Describe(msg.Err))
		}
		return v, nil

	case messages.Located:
		if msg.Err != nil {
			v.statusbar.Show(status.StateError, forms.Describe(msg.Err))
			return v, nil
		}
		v.statusbar.Show(status.StateSuccess, "Showing providers near "+msg.Point.String())
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.Show(status.StateError, forms.Describe(msg.Err))
		return v, nil
	}

	if v.focus == FocusInput {
		return v.updateInput(msg)
	}
	return v, nil
}

// handleKey routes keys by focus. Esc always returns to the menu.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}
	if msg.Type == tea.KeyTab {
		v.setFocus(v.nextFocus())
		return v, nil
	}
	if msg.Type == tea.KeyShiftTab {
		v.setFocus(v.prevFocus())
		return v, nil
	}

	switch v.focus {
	case FocusInput:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyDown:
			v.setFocus(FocusList)
			return v, nil
		}
		return v.updateInput(msg)

	case FocusList:
		return v.handleListKey(msg)

	case FocusMap:
		return v.handleMapKey(msg)
	}
	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "enter":
		if p := v.list.SelectedProvider(); p != nil {
			return v, selectProvider(p.ID)
		}
		return v, nil
	case key == "/":
		v.setFocus(FocusInput)
		return v, nil
	case key == "[" || keymap.Matches(key, v.keymap.Left):
		return v, v.shiftCategory(-1)
	case key == "]" || keymap.Matches(key, v.keymap.Right):
		return v, v.shiftCategory(1)
	case keymap.Matches(key, v.keymap.Locate):
		return v, v.locate()
	case keymap.Matches(key, v.keymap.Refresh):
		return v, v.refresh()
	}
	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleMapKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.mapv == nil {
		return v, nil
	}
	key := msg.String()
	switch {
	case key == "enter":
		if mk, ok := v.mapv.MarkerAtCursor(); ok && mk.ProviderID != "" {
			v.list.SelectByID(mk.ProviderID)
			return v, selectProvider(mk.ProviderID)
		}
		v.statusbar.Show(status.StateReady, "No provider under the cursor")
		return v, nil
	case keymap.Matches(key, v.keymap.Locate):
		return v, v.locate()
	case keymap.Matches(key, v.keymap.Refresh):
		return v, v.refresh()
	}
	v.mapv, _ = v.mapv.Update(msg)
	return v, nil
}

// updateInput forwards msg to the query box and pushes any change to the browser.
func (v *View) updateInput(msg tea.Msg) (*View, tea.Cmd) {
	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if after := v.input.Value(); after != before && v.browser != nil {
		v.browser.SetQuery(after)
	}
	return v, cmd
}

func (v *View) setFocus(f Focus) {
	if f == FocusMap && v.mapv == nil {
		f = FocusInput
	}
	v.focus = f
	if f == FocusInput {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
	if v.mapv != nil {
		v.mapv.SetFocused(f == FocusMap)
	}
	if f == FocusMap {
		v.statusbar.SetHints(v.keymap.MapHelp())
	} else {
		v.statusbar.SetHints(v.keymap.BrowseHelp())
	}
}

func (v *View) nextFocus() Focus {
	switch v.focus {
	case FocusInput:
		return FocusList
	case FocusList:
		if v.mapv != nil {
			return FocusMap
		}
	}
	return FocusInput
}

func (v *View) prevFocus() Focus {
	switch v.focus {
	case FocusList:
		return FocusInput
	case FocusMap:
		return FocusList
	}
	if v.mapv != nil {
		return FocusMap
	}
	return FocusList
}

// shiftCategory selects the neighbouring category and fetches it.
func (v *View) shiftCategory(delta int) tea.Cmd {
	if len(v.cats) == 0 {
		return nil
	}
	v.category = (v.category + delta + len(v.cats)) % len(v.cats)
	id := v.cats[v.category].ID
	if strings.TrimSpace(v.input.Value()) != "" {
		v.statusbar.Show(status.StateReady, "Clear the search to filter by category")
	}
	if v.browser != nil {
		v.browser.SetCategory(id)
	}
	return nil
}

func (v *View) refresh() tea.Cmd {
	if v.browser == nil {
		return nil
	}
	b := v.browser
	return func() tea.Msg {
		b.Refresh()
		return nil
	}
}

func (v *View) loadCategories() tea.Cmd {
	if v.categories == nil {
		return nil
	}
	svc, ctx := v.categories, v.ctx
	return func() tea.Msg {
		cats, err := svc.Load(ctx)
		return messages.CategoriesLoaded{Categories: cats, Err: err}
	}
}

func (v *View) locate() tea.Cmd {
	if v.location == nil {
		v.statusbar.Show(status.StateError, "Location is not available")
		return nil
	}
	v.statusbar.Show(status.StateLoading, "Locating...")
	svc, ctx := v.location, v.ctx
	return func() tea.Msg {
		p, err := svc.UseMyLocation(ctx)
		return messages.Located{Point: p, Err: err}
	}
}

func selectProvider(id string) tea.Cmd {
	return func() tea.Msg { return messages.ProviderSelected{ID: id} }
}

// applySnapshot shows a published browser state.
func (v *View) applySnapshot(snap domain.BrowseSnapshot) {
	v.snapshot = snap
	v.list.SetProviders(snap.Providers)
	v.list.SetLoading(snap.Loading)
	v.list.SetOrigin(snap.Filter.Origin)
	v.statusbar.SetOrigin(snap.Filter.Origin)
	v.statusbar.SetResultCount(len(snap.Providers))

	for i, c := range v.cats {
		if c.ID == snap.Filter.Category {
			v.category = i
		}
	}

	switch {
	case snap.Loading:
		v.statusbar.Show(status.StateLoading, "Searching...")
	case snap.Err != nil:
		v.statusbar.Show(status.StateError, forms.Describe(snap.Err))
	default:
		v.statusbar.Show(status.StateResults, describeQuery(snap.Filter, len(snap.Providers), v.cats))
	}
}

// describeQuery summarises what the listing shows.
func describeQuery(f domain.FilterState, n int, cats []domain.Category) string {
	q := f.Resolve()
	switch q.Kind {
	case domain.QuerySearch:
		return fmt.Sprintf("%d providers matching %q", n, q.Text)
	case domain.QueryCategory:
		name := q.Category
		if c, ok := domain.FindCategory(cats, q.Category); ok {
			name = c.Name
		}
		return fmt.Sprintf("%d providers in %s", n, name)
	}
	if q.Origin != nil {
		return fmt.Sprintf("%d providers near %s", n, q.Origin.String())
	}
	return fmt.Sprintf("%d providers nearby", n)
}

func (v *View) setCategories(cats []domain.Category) {
	if len(cats) == 0 {
		return
	}
	current := ""
	if v.category < len(v.cats) {
		current = v.cats[v.category].ID
	}
	v.cats = cats
	v.category = 0
	for i, c := range cats {
		if c.ID == current {
			v.category = i
		}
	}
}

// View renders the browse view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	parts := []string{
		v.styles.Title.Render("Find providers"),
		v.input.View(),
		v.renderCategories(),
		v.renderBody(),
		v.statusbar.View(),
	}
	return strings.Join(parts, "\n")
}

// renderCategories draws the category bar with counts, wrapped to the width.
func (v *View) renderCategories() string {
	items := make([]string, 0, len(v.cats))
	for i, c := range v.cats {
		label := fmt.Sprintf("%s %s (%s)", c.Icon, c.Name, c.CountLabel())
		if i == v.category {
			items = append(items, v.styles.Selected.Render(label))
			continue
		}
		items = append(items, v.styles.Muted.Render(label))
	}
	hint := v.styles.Help.Render("  [/] category")
	return lipgloss.NewStyle().Width(v.width).Render(strings.Join(items, "  ") + hint)
}

func (v *View) renderBody() string {
	listPane := v.pane(v.list.View(), v.focus == FocusList)
	if v.mapv == nil {
		return listPane
	}
	mapPane := v.pane(v.mapv.View(), v.focus == FocusMap)
	if v.width >= sideBySideWidth {
		return lipgloss.JoinHorizontal(lipgloss.Top, listPane, mapPane)
	}
	return lipgloss.JoinVertical(lipgloss.Left, listPane, mapPane)
}

func (v *View) pane(content string, focused bool) string {
	if focused {
		return v.styles.Focused.Render(content)
	}
	return v.styles.Border.Render(content)
}

// SetDimensions sizes the list and map to share the space below the query box.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	body := height - 10
	if body < 6 {
		body = 6
	}
	if v.mapv == nil {
		v.list.SetDimensions(width-4, body)
		return
	}
	if width >= sideBySideWidth {
		half := width/2 - 2
		v.list.SetDimensions(half, body)
		v.mapv.SetDimensions(width-half-6, body-1)
		return
	}
	v.list.SetDimensions(width-4, body/2)
	v.mapv.SetDimensions(width-4, body/2-3)
}

// Focus returns the pane receiving keys.
func (v *View) Focus() Focus {
	return v.focus
}

// Query returns the text in the search box.
func (v *View) Query() string {
	return v.input.Value()
}

// Category returns the selected category id.
func (v *View) Category() string {
	if v.category < len(v.cats) {
		return v.cats[v.category].ID
	}
	return domain.CategoryAll
}

// Categories returns the category bar entries.
func (v *View) Categories() []domain.Category {
	return v.cats
}

// Providers returns the listed providers.
func (v *View) Providers() []domain.Provider {
	return v.list.Providers()
}

// SelectedProvider returns the highlighted provider, or nil.
func (v *View) SelectedProvider() *domain.Provider {
	return v.list.SelectedProvider()
}

// Status returns the status bar state and message.
func (v *View) Status() (status.State, string) {
	return v.statusbar.State(), v.statusbar.Message()
}
