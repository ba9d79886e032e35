package status

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/keymap"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

func TestNewBar_NilArgs(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

func TestBar_Outcome(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    string
	}{
		{"ready", StateReady, "", 0, "Ready"},
		{"one result", StateResults, "", 1, "1 provider"},
		{"results", StateResults, "", 4, "4 providers"},
		{"loading", StateLoading, "", 0, "Loading..."},
		{"loading message", StateLoading, "Locating...", 0, "Locating..."},
		{"error", StateError, "Please log in", 0, "Error: Please log in"},
		{"bare error", StateError, "", 0, "Error"},
		{"success", StateSuccess, "Location saved", 0, "Location saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			bar.Show(tt.state, tt.message)
			bar.SetResultCount(tt.count)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_Origin(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)

	assert.Contains(t, bar.View(), "near your saved location")

	p := domain.Point{Lat: 28.6139, Lng: 77.2090}
	bar.SetOrigin(&p)
	assert.Contains(t, bar.View(), "near "+p.String())
}

func TestBar_NarrowDropsOrigin(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.Show(StateResults, "3 providers")
	bar.SetWidth(30)

	view := bar.View()
	assert.Contains(t, view, "3 providers")
	assert.NotContains(t, view, "saved location")
}

func TestBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(160)

	assert.Contains(t, bar.View(), "esc: back")

	bar.SetHints([]key.Binding{km.Locate})
	view := bar.View()
	assert.Contains(t, view, "L: my location")
	assert.NotContains(t, view, "esc: back")

	bar.SetHints(nil)
	assert.Contains(t, bar.View(), "esc: back")
}
