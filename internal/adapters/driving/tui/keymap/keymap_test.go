package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Keys(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"left", km.Left, []string{"left", "h"}},
		{"right", km.Right, []string{"right", "l"}},
		{"select", km.Select, []string{"enter"}},
		{"pane", km.NextPane, []string{"tab"}},
		{"locate", km.Locate, []string{"L"}},
		{"zoom in", km.ZoomIn, []string{"+"}},
		{"zoom out", km.ZoomOut, []string{"-"}},
		{"rate", km.Rate, []string{"1", "5"}},
		{"save", km.Save, []string{"ctrl+s"}},
		{"find", km.Find, []string{"/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
			assert.NotEmpty(t, tt.binding.Help().Key)
		})
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Equal(t, []key.Binding{km.Back, km.Help}, bindings)
}

func TestBrowseAndMapHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.BrowseHelp(), km.Locate)
	assert.Contains(t, km.MapHelp(), km.ZoomIn)
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 4)
	assert.Contains(t, bindings[3], km.Quit)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("3", km.Rate))
	assert.True(t, Matches("k", km.Up))

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("6", km.Rate))
	assert.False(t, Matches("down", km.Up))
}
