package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for localfinder.

The TUI shows providers in a list next to a map, with a search box and
category bar. Providers can also place their business on the map.

Controls:
  tab        - Switch between search, list and map
  [ / ]      - Previous / next category
  Enter      - Open provider details
  L          - Use my location
  Esc        - Back
  ctrl+c     - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	// Logs would corrupt the alternate screen.
	if tuiLogFile != "" {
		restore := logger.SetLogFile(tuiLogFile)
		defer restore()
	}

	ctx := commandContext(cmd)
	if startPicker != nil {
		if err := startPicker(ctx); err != nil {
			logger.Warn("location picker unavailable: %v", err)
		}
	}

	ports := &tui.Ports{
		Browser:      browser,
		Categories:   categoryService,
		Detail:       detailService,
		Location:     locationService,
		MapSync:      mapSync,
		Picker:       locationPicker,
		Profile:      profileService,
		Sessions:     sessionService,
		Settings:     settingsService,
		Reloaded:     pickerReloaded,
		ImageBaseURL: imageBaseURL(),
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
