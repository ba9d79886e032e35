package cli

import (
	"github.com/spf13/cobra"

	"github.com/localfinder/localfinder-cli/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings such as the backend URL and location options.

Environment variables (LOCALFINDER_API_URL, LOCALFINDER_MAPS_API_KEY, ...)
and a .env file in the working directory override the saved values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Changes one setting. Run 'localfinder settings show' for the keys.

Examples:
  localfinder settings set api.base_url https://market.example.com/api
  localfinder settings set location.provider fixed
  localfinder settings set location.allow false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fail("load settings failed", err)
	}

	values := services.SettingValues(settings)
	for _, key := range settingsService.Keys() {
		line := "  " + padRight(key, 24) + values[key]
		if settingSource != nil {
			if src := settingSource(key); src != "" {
				line += "  (from " + src + ")"
			}
		}
		cmd.Println(line)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings service")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fail("set failed", err)
	}
	cmd.Printf("%s updated\n", args[0])
	if settingSource != nil {
		if src := settingSource(args[0]); src != "" {
			cmd.Printf("Note: %s is set and takes precedence.\n", src)
		}
	}
	return nil
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
