package input

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
)

func TestNewSearchInput(t *testing.T) {
	s := styles.DefaultStyles()
	input := NewSearchInput(s)

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
	assert.Equal(t, "Search: ", input.Label())
}

func TestNewField_StartsBlurred(t *testing.T) {
	f := NewField(nil, "Name: ", "Your name")

	require.NotNil(t, f.styles)
	assert.False(t, f.Focused())
	assert.Equal(t, "Your name", f.textinput.Placeholder)
}

func TestNewPasswordField_Masks(t *testing.T) {
	f := NewPasswordField(nil, "Password: ")
	f.Focus()
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("secret")})

	assert.Equal(t, textinput.EchoPassword, f.textinput.EchoMode)
	assert.Equal(t, "secret", f.Value())
	assert.NotContains(t, f.View(), "secret")
}

func TestField_Init(t *testing.T) {
	assert.NotNil(t, NewSearchInput(nil).Init())
}

func TestField_UpdateTypes(t *testing.T) {
	input := NewSearchInput(nil)

	updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Equal(t, input, updated)
	assert.Equal(t, "a", input.Value())
}

func TestField_BlurredIgnoresKeys(t *testing.T) {
	f := NewField(nil, "Name: ", "")

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Empty(t, f.Value())
}

func TestField_ViewShowsLabelAndError(t *testing.T) {
	f := NewField(nil, "Price: ", "")
	assert.Contains(t, f.View(), "Price")

	f.SetError("Price cannot be negative")
	assert.Equal(t, "Price cannot be negative", f.Error())
	assert.Contains(t, f.View(), "Price cannot be negative")
}

func TestField_FocusBlur(t *testing.T) {
	f := NewField(nil, "X: ", "")

	f.Focus()
	assert.True(t, f.Focused())
	f.Blur()
	assert.False(t, f.Focused())
}

func TestField_SetWidth(t *testing.T) {
	f := NewSearchInput(nil)

	f.SetWidth(100)
	assert.Equal(t, 100, f.Width())
	assert.Equal(t, 100-len("Search: ")-6, f.textinput.Width)

	f.SetWidth(10)
	assert.Equal(t, 20, f.textinput.Width)
}

func TestField_Reset(t *testing.T) {
	f := NewSearchInput(nil)
	f.SetValue("plumber")
	f.SetError("bad")

	f.Reset()

	assert.Empty(t, f.Value())
	assert.Empty(t, f.Error())
}
