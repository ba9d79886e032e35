// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// linesPerProvider is the height of one rendered entry.
const linesPerProvider = 2

// ProviderList displays providers in a navigable list.
type ProviderList struct {
	providers []domain.Provider
	selected  int
	styles    *styles.Styles
	width     int
	height    int
	loading   bool
	origin    *domain.Point
}

// NewProviderList creates a new provider list component.
func NewProviderList(s *styles.Styles) *ProviderList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ProviderList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the provider list.
func (r *ProviderList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ProviderList) Update(msg tea.Msg) (*ProviderList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.providers) > 0 {
				r.selected = len(r.providers) - 1
			}
		}
	}
	return r, nil
}

// View renders the provider list.
func (r *ProviderList) View() string {
	if len(r.providers) == 0 {
		if r.loading {
			return r.styles.Muted.Render("Loading providers...")
		}
		return r.styles.Muted.Render("No providers found")
	}

	header := r.styles.Subtitle.Render(fmt.Sprintf("Providers (%d)", len(r.providers)))
	if r.loading {
		header += r.styles.Muted.Render("  updating...")
	}
	lines := []string{header, ""}

	visible := (r.height - 2) / linesPerProvider
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.providers) {
		end = len(r.providers)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderProvider(i, &r.providers[i]))
	}
	return strings.Join(lines, "\n")
}

// renderProvider formats one entry: name and rating, then category, price,
// distance and address.
func (r *ProviderList) renderProvider(index int, p *domain.Provider) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := p.Name
	if name == "" {
		name = "(unnamed provider)"
	}
	nameWidth := r.width - 12
	if nameWidth < 10 {
		nameWidth = 10
	}
	name = truncate(name, nameWidth)

	stars := "★ " + p.RatingLabel()
	var title string
	if index == r.selected {
		title = r.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, nameWidth, name)) +
			" " + r.styles.Rating.Render(stars)
	} else {
		title = r.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, nameWidth, name)) +
			" " + r.styles.Rating.Render(stars)
	}

	details := []string{}
	if p.Category != "" {
		details = append(details, p.Category)
	}
	details = append(details, FormatPrice(p.Price))
	if r.origin != nil && p.Location != nil {
		details = append(details, domain.FormatDistance(r.origin.DistanceKm(*p.Location)))
	}
	if p.Address != "" {
		details = append(details, p.Address)
	}
	detail := truncate(strings.Join(details, " · "), r.width-4)
	return title + "\n" + r.styles.Muted.Render("    "+detail)
}

// FormatPrice renders a price in rupees without trailing zeros.
func FormatPrice(price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("₹%d", int64(price))
	}
	return fmt.Sprintf("₹%.2f", price)
}

// truncate shortens s to width cells, ending with "...".
func truncate(s string, width int) string {
	if width < 4 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// SetProviders replaces the list. The selection follows the previously selected
// provider when it is still listed, otherwise it is clamped.
func (r *ProviderList) SetProviders(providers []domain.Provider) {
	var prev string
	if p := r.SelectedProvider(); p != nil {
		prev = p.ID
	}
	r.providers = providers
	r.selected = 0
	for i := range providers {
		if prev != "" && providers[i].ID == prev {
			r.selected = i
			return
		}
	}
}

// SetOrigin sets the point distances are measured from. nil hides distances.
func (r *ProviderList) SetOrigin(origin *domain.Point) {
	r.origin = origin
}

// SetLoading marks a fetch as in flight.
func (r *ProviderList) SetLoading(loading bool) {
	r.loading = loading
}

// Loading reports whether a fetch is in flight.
func (r *ProviderList) Loading() bool {
	return r.loading
}

// Providers returns the current providers.
func (r *ProviderList) Providers() []domain.Provider {
	return r.providers
}

// Selected returns the index of the selected provider.
func (r *ProviderList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ProviderList) SetSelected(index int) {
	if index >= 0 && index < len(r.providers) {
		r.selected = index
	}
}

// SelectByID selects the provider with id and reports whether it is listed.
func (r *ProviderList) SelectByID(id string) bool {
	for i := range r.providers {
		if r.providers[i].ID == id {
			r.selected = i
			return true
		}
	}
	return false
}

// SelectedProvider returns the currently selected provider, or nil if none.
func (r *ProviderList) SelectedProvider() *domain.Provider {
	if len(r.providers) == 0 || r.selected < 0 || r.selected >= len(r.providers) {
		return nil
	}
	return &r.providers[r.selected]
}

// MoveUp moves selection up.
func (r *ProviderList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ProviderList) MoveDown() {
	if r.selected < len(r.providers)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ProviderList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of providers.
func (r *ProviderList) Count() int {
	return len(r.providers)
}

// IsEmpty returns whether the list is empty.
func (r *ProviderList) IsEmpty() bool {
	return len(r.providers) == 0
}
