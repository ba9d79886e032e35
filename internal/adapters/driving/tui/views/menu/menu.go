// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool // If true, selecting this item quits the app
}

// DefaultItems returns every menu entry in display order.
func DefaultItems() []Item {
	return []Item{
		{Label: "Find providers", Hint: "search, filter and map", View: messages.ViewBrowse},
		{Label: "Account", Hint: "log in or out", View: messages.ViewAccount},
		{Label: "My profile", Hint: "provider listing", View: messages.ViewProfile},
		{Label: "My location", Hint: "provider map pin", View: messages.ViewPicker},
		{Label: "Settings", View: messages.ViewSettings},
		{Label: "Help", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	sessions map[domain.Role]*domain.Session
	width    int
	height   int
	ready    bool
}

// NewView creates a menu with items. nil uses DefaultItems.
func NewView(s *styles.Styles, items []Item) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if items == nil {
		items = DefaultItems()
	}

	return &View{
		styles:   s,
		items:    items,
		sessions: map[domain.Role]*domain.Session{},
		width:    80,
		height:   24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("localfinder"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Local services near you"))
	b.WriteString("\n\n")

	for _, role := range domain.Roles() {
		b.WriteString(v.sessionLine(role))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(v.styles.Theme().Primary).
				Bold(true)
		}

		line := cursor + style.Render(item.Label)
		if item.Hint != "" {
			line += "  " + v.styles.Muted.Render(item.Hint)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

// sessionLine describes who is signed in for role.
func (v *View) sessionLine(role domain.Role) string {
	label := fmt.Sprintf("%-9s", strings.ToUpper(role.String()[:1])+role.String()[1:]+":")
	s := v.sessions[role]
	if !s.Authenticated() {
		return v.styles.Muted.Render(label + " not logged in")
	}
	who := s.Account.Email
	if s.Account.Name != "" {
		who = fmt.Sprintf("%s <%s>", s.Account.Name, s.Account.Email)
	}
	return v.styles.Normal.Render(label) + " " + v.styles.Success.Render(who)
}

// SetSession records the session shown for role. nil shows "not logged in".
func (v *View) SetSession(role domain.Role, s *domain.Session) {
	v.sessions[role] = s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}
