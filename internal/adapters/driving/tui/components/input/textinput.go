// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
)

// Field wraps a bubbles textinput with a label and form styling.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	err       string
	width     int
}

// NewField creates an unfocused labelled input.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// NewSearchInput creates the focused provider search box.
func NewSearchInput(s *styles.Styles) *Field {
	f := NewField(s, "Search: ", "Search providers, e.g. plumber...")
	f.textinput.Focus()
	return f
}

// NewPasswordField creates an input that masks what is typed.
func NewPasswordField(s *styles.Styles, label string) *Field {
	f := NewField(s, label, "")
	f.textinput.EchoMode = textinput.EchoPassword
	f.textinput.EchoCharacter = '•'
	return f
}

// Init initialises the input.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label, the boxed input and any validation message.
func (f *Field) View() string {
	label := f.styles.Title.Render(f.label)
	box := f.styles.InputField
	if f.textinput.Focused() {
		box = box.BorderForeground(f.styles.Theme().Primary)
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	row := lipgloss.JoinHorizontal(lipgloss.Center, label, box.Render(f.textinput.View()))
	if f.err == "" {
		return row
	}
	return row + "\n" + f.styles.Error.Render("  "+f.err)
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// SetError shows a validation message under the input. "" clears it.
func (f *Field) SetError(msg string) {
	f.err = msg
}

// Error returns the validation message.
func (f *Field) Error() string {
	return f.err
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input.
func (f *Field) SetWidth(width int) {
	f.width = width
	inputWidth := width - lipgloss.Width(f.label) - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the input and its message.
func (f *Field) Reset() {
	f.textinput.Reset()
	f.err = ""
}
