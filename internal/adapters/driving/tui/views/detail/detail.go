// Package detail provides the provider detail dialog with star rating.
package detail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/components/list"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/keymap"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/messages"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
)

// View shows one provider and accepts a 1-5 rating.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	detail    driving.DetailService
	imageBase string
	ctx       context.Context

	state    domain.DetailState
	pending  string
	rating   int
	inFlight bool
	message  string
	failed   bool

	width  int
	height int
	ready  bool
}

// NewView creates the detail view. imageBase resolves relative profile images.
func NewView(s *styles.Styles, km *keymap.KeyMap, detail driving.DetailService, imageBase string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		detail:    detail,
		imageBase: imageBase,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetImageBase updates the base used for relative profile images.
func (v *View) SetImageBase(base string) {
	v.imageBase = base
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Open shows the loading state for id and returns the fetch command.
func (v *View) Open(id string) tea.Cmd {
	v.pending = id
	v.state = domain.DetailState{Status: domain.DetailLoading, ProviderID: id}
	v.rating = 0
	v.inFlight = false
	v.message = ""
	v.failed = false
	if v.detail == nil {
		v.state.Status = domain.DetailEmpty
		return nil
	}

	svc, ctx := v.detail, v.ctx
	return func() tea.Msg {
		return messages.DetailLoaded{State: svc.Open(ctx, id)}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.DetailLoaded:
		// A late response for a dialog that was closed or reopened is dropped.
		if msg.State.ProviderID != v.pending {
			return v, nil
		}
		v.state = msg.State

	case messages.Rated:
		v.inFlight = false
		if msg.Err != nil {
			v.failed = true
			v.message = forms.Describe(msg.Err)
			return v, nil
		}
		v.failed = false
		v.rating = msg.Rating
		if v.state.Provider != nil {
			v.state.Provider.Rating = msg.Average
		}
		v.message = fmt.Sprintf("Thanks! You rated %d★. New average ★ %s", msg.Rating, domain.FormatRating(msg.Average))

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc || key == "q":
		v.close()
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewBrowse} }

	case keymap.Matches(key, v.keymap.Rate):
		return v, v.rate(int(key[0] - '0'))
	}
	return v, nil
}

// rate submits n when a provider is shown and no rating is in flight.
func (v *View) rate(n int) tea.Cmd {
	if v.detail == nil || v.state.Status != domain.DetailLoaded || v.inFlight {
		return nil
	}
	v.inFlight = true
	v.failed = false
	v.message = fmt.Sprintf("Submitting %d★...", n)

	svc, ctx := v.detail, v.ctx
	return func() tea.Msg {
		avg, err := svc.Rate(ctx, n)
		return messages.Rated{Rating: n, Average: avg, Err: err}
	}
}

func (v *View) close() {
	v.pending = ""
	v.state = domain.DetailState{Status: domain.DetailIdle}
	if v.detail != nil {
		v.detail.Close()
	}
}

// View renders the detail dialog.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	switch v.state.Status {
	case domain.DetailLoading:
		b.WriteString(v.styles.Muted.Render("Loading provider..."))
	case domain.DetailLoaded:
		if v.state.Provider != nil {
			b.WriteString(v.renderProvider(v.state.Provider))
			break
		}
		fallthrough
	default:
		b.WriteString(v.styles.Muted.Render("No details available"))
	}

	if v.message != "" {
		b.WriteString("\n\n")
		if v.failed {
			b.WriteString(v.styles.Error.Render(v.message))
		} else {
			b.WriteString(v.styles.Success.Render(v.message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("1-5 rate • esc back"))
	return v.styles.Border.Width(v.dialogWidth()).Render(b.String())
}

func (v *View) renderProvider(p *domain.Provider) string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(p.Category))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Rating.Render(stars(p.Rating) + " " + p.RatingLabel()))
	if v.rating > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  (you: %d★)", v.rating)))
	}
	b.WriteString("\n")

	rows := [][2]string{
		{"Price", list.FormatPrice(p.Price)},
		{"Status", availability(p.Available)},
		{"Address", p.Address},
		{"Mobile", p.Mobile},
		{"Email", p.Email},
		{"Image", p.ImageURL(v.imageBase)},
	}
	if p.Location != nil {
		rows = append(rows, [2]string{"Location", p.Location.String()})
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%-9s", row[0])))
		b.WriteString(v.styles.Normal.Render(row[1]))
		b.WriteString("\n")
	}

	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(p.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

// stars draws the rating rounded to whole stars out of five.
func stars(rating float64) string {
	n := int(rating + 0.5)
	if n < 0 {
		n = 0
	}
	if n > domain.MaxRating {
		n = domain.MaxRating
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.MaxRating-n)
}

func availability(available bool) string {
	if available {
		return "Available"
	}
	return "Unavailable"
}

func (v *View) dialogWidth() int {
	w := v.width - 4
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// State returns the shown dialog state.
func (v *View) State() domain.DetailState {
	return v.state
}

// Message returns the last rating outcome.
func (v *View) Message() string {
	return v.message
}
