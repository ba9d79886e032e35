// Package status provides the status line shown under the provider list.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/keymap"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// State is what the browse view is doing.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
	StateSuccess State = "success"
	StateResults State = "results"
)

// Bar is a single line: outcome on the left, search origin in the middle,
// key hints on the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	hints  []key.Binding
	width  int

	state   State
	message string
	count   int
	origin  *domain.Point
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar at its width. Segments that do not fit are dropped
// from the middle outwards.
func (s *Bar) View() string {
	left, middle, right := s.outcome(), s.near(), s.keys()

	free := s.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if lipgloss.Width(middle)+2 > free {
		middle = ""
	}
	if free < 1 {
		right = ""
		free = s.width - 2 - lipgloss.Width(left)
	}

	gap := max(free-lipgloss.Width(middle), 1)
	line := left + strings.Repeat(" ", gap/2) + middle + strings.Repeat(" ", gap-gap/2) + right
	return s.styles.StatusBar.Width(s.width).Render(line)
}

func (s *Bar) outcome() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render(orDefault(s.message, "Loading..."))
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateSuccess:
		return s.styles.Success.Render(s.message)
	case StateReady, StateResults:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
		if s.count > 0 {
			return s.styles.Normal.Render(providerCount(s.count))
		}
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) near() string {
	if s.origin == nil {
		return s.styles.Muted.Render("near your saved location")
	}
	return s.styles.Muted.Render("near " + s.origin.String())
}

func (s *Bar) keys() string {
	bindings := s.hints
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(parts, " | "))
}

func providerCount(n int) string {
	if n == 1 {
		return "1 provider"
	}
	return fmt.Sprintf("%d providers", n)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Show sets the state and its message.
func (s *Bar) Show(state State, message string) {
	s.state = state
	s.message = message
}

// State returns the current state.
func (s *Bar) State() State { return s.state }

// Message returns the current message.
func (s *Bar) Message() string { return s.message }

// SetResultCount sets how many providers are listed.
func (s *Bar) SetResultCount(n int) { s.count = n }

// SetOrigin sets the point searches are made around. nil means the server
// uses the saved location.
func (s *Bar) SetOrigin(p *domain.Point) { s.origin = p }

// SetHints replaces the key hints. nil restores the default.
func (s *Bar) SetHints(bindings []key.Binding) { s.hints = bindings }

// SetWidth sets the bar width.
func (s *Bar) SetWidth(width int) { s.width = width }
