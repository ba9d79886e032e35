package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/services"
)

func TestLocationShowCmd(t *testing.T) {
	picker := &fakePicker{}

	out, err := execute(t, Services{Picker: picker}, "", "location", "show")
	require.NoError(t, err)
	assert.Equal(t, 1, picker.reloaded)
	assert.Contains(t, out, "No location saved yet.")

	picker.state.Saved = &domain.ProviderLocation{Point: domain.Point{Lat: 12.5, Lng: 77.25}, Address: "Shop 4, Janpath"}
	out, err = execute(t, Services{Picker: picker}, "", "location", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Shop 4, Janpath")
	assert.Contains(t, out, "12.50000, 77.25000")
}

func TestLocationSetCmd_Coordinates(t *testing.T) {
	picker := &fakePicker{}

	out, err := execute(t, Services{Picker: picker}, "", "location", "set", "28.61", "77.21", "--address", "Shop 4, Janpath")

	require.NoError(t, err)
	require.NotNil(t, picker.state.Saved)
	assert.Equal(t, domain.Point{Lat: 28.61, Lng: 77.21}, picker.state.Saved.Point)
	assert.Equal(t, "Shop 4, Janpath", picker.state.Saved.Address)
	assert.Contains(t, out, services.MsgLocationSaved)
}

func TestLocationSetCmd_GeocoderUnavailableIsQuiet(t *testing.T) {
	picker := &fakePicker{pickErr: domain.ErrGeocoderUnavailable}

	out, err := execute(t, Services{Picker: picker}, "", "location", "set", "28.61", "77.21")

	require.NoError(t, err)
	assert.NotContains(t, out, "Warning")
}

func TestLocationSetCmd_Search(t *testing.T) {
	picker := &fakePicker{place: domain.Place{
		Name:             "MG Road",
		FormattedAddress: "MG Road, Bengaluru, Karnataka",
		Location:         domain.Point{Lat: 12.975, Lng: 77.606},
	}}

	out, err := execute(t, Services{Picker: picker}, "", "location", "set", "--search", "MG Road")

	require.NoError(t, err)
	assert.Contains(t, out, "Found MG Road, Bengaluru, Karnataka")
	assert.Equal(t, "MG Road, Bengaluru, Karnataka", picker.state.Saved.Address)
}

func TestLocationSetCmd_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"one coordinate", []string{"location", "set", "12"}, "expected a latitude and a longitude"},
		{"nothing", []string{"location", "set"}, "give coordinates or --search"},
		{"both", []string{"location", "set", "1", "2", "-s", "x"}, "not both"},
		{"out of range", []string{"location", "set", "12", "181"}, "coordinate out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, Services{Picker: &fakePicker{}}, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLocationSetCmd_SaveFails(t *testing.T) {
	picker := &fakePicker{saveErr: domain.ErrAuthRequired}

	_, err := execute(t, Services{Picker: picker}, "", "location", "set", "1", "2")

	require.Error(t, err)
	assert.Equal(t, services.MsgLocationSaveFailed+": Please log in first.", err.Error())
}
