package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/core/services"
)

func TestSettingsShowCmd(t *testing.T) {
	settings := newFakeSettings()
	settings.settings.Maps.APIKey = "AIzaSyA-1234567890abcd"
	svc := Services{
		Settings: settings,
		SettingSource: func(key string) string {
			if key == services.KeyAPIBaseURL {
				return "LOCALFINDER_API_URL"
			}
			return ""
		},
	}

	out, err := execute(t, svc, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "http://localhost:3000/api  (from LOCALFINDER_API_URL)")
	assert.Contains(t, out, services.MaskAPIKey("AIzaSyA-1234567890abcd"))
	assert.NotContains(t, out, "1234567890")
}

func TestSettingsSetCmd(t *testing.T) {
	settings := newFakeSettings()

	out, err := execute(t, Services{Settings: settings}, "", "settings", "set", "location.allow", "false")

	require.NoError(t, err)
	assert.Equal(t, "false", settings.set["location.allow"])
	assert.Contains(t, out, "location.allow updated")
}

func TestSettingsSetCmd_WarnsAboutOverride(t *testing.T) {
	svc := Services{
		Settings:      newFakeSettings(),
		SettingSource: func(string) string { return "LOCALFINDER_MAPS_API_KEY" },
	}

	out, err := execute(t, svc, "", "settings", "set", "maps.api_key", "k")

	require.NoError(t, err)
	assert.Contains(t, out, "Note: LOCALFINDER_MAPS_API_KEY is set and takes precedence.")
}

func TestSettingsSetCmd_Fails(t *testing.T) {
	settings := newFakeSettings()
	settings.err = errors.New("unknown setting")

	_, err := execute(t, Services{Settings: settings}, "", "settings", "set", "nope", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set failed")
}

func TestSettingsSetCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, Services{Settings: newFakeSettings()}, "", "settings", "set", "api.base_url")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}
