// Package cli implements the localfinder command line.
//
// Commands read their collaborators from package-level variables set once by
// Configure, so every command can be exercised in tests with fakes.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/forms"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services are the collaborators commands use. Nil members make the
// commands that need them fail with "not configured".
type Services struct {
	Sessions   driving.SessionService
	Browser    driving.Browser
	Categories driving.CategoryService
	Detail     driving.DetailService
	Location   driving.LocationService
	MapSync    driving.MapSync
	Profile    driving.ProfileService
	Picker     driving.LocationPicker
	Settings   driving.SettingsService

	// SettingSource reports the environment variable overriding a setting, if any.
	SettingSource func(key string) string

	// StartPicker begins following provider token changes for the TUI.
	StartPicker func(ctx context.Context) error

	// Reloaded signals that the picker reloaded after a token change.
	Reloaded <-chan struct{}

	// LogFile receives logs while the TUI owns the terminal.
	LogFile string
}

var (
	sessionService   driving.SessionService
	browser          driving.Browser
	categoryService  driving.CategoryService
	detailService    driving.DetailService
	locationService  driving.LocationService
	mapSync          driving.MapSync
	profileService   driving.ProfileService
	locationPicker   driving.LocationPicker
	settingsService  driving.SettingsService
	settingSource    func(string) string
	startPicker      func(context.Context) error
	pickerReloaded   <-chan struct{}
	tuiLogFile       string
	verboseRequested bool
)

// Configure installs the services used by every command.
func Configure(s Services) {
	sessionService = s.Sessions
	browser = s.Browser
	categoryService = s.Categories
	detailService = s.Detail
	locationService = s.Location
	mapSync = s.MapSync
	profileService = s.Profile
	locationPicker = s.Picker
	settingsService = s.Settings
	settingSource = s.SettingSource
	startPicker = s.StartPicker
	pickerReloaded = s.Reloaded
	tuiLogFile = s.LogFile
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "localfinder",
	Short: "Find local service providers from the terminal",
	Long: `localfinder searches a local-services marketplace: plumbers, tutors,
electricians and more, near you.

Browse and rate providers as a user, or manage your listing as a provider.
Run 'localfinder tui' for the interactive map view.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verboseRequested {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseRequested, "verbose", "v", false, "log requests to stderr")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// errNotConfigured builds the error for a missing collaborator.
func errNotConfigured(name string) error {
	return errors.New(name + " not configured")
}

// failure pairs a user-facing message with the underlying error.
type failure struct {
	action string
	err    error
}

func (f *failure) Error() string {
	return f.action + ": " + forms.Describe(f.err)
}

func (f *failure) Unwrap() error {
	return f.err
}

// fail wraps err for display. nil stays nil.
func fail(action string, err error) error {
	if err == nil {
		return nil
	}
	return &failure{action: action, err: err}
}

// roleFlag registers --provider on cmd and returns the role it selects.
func roleFlag(cmd *cobra.Command) func() domain.Role {
	var provider bool
	cmd.Flags().BoolVar(&provider, "provider", false, "act on the provider account instead of the user account")
	return func() domain.Role {
		if provider {
			return domain.RoleProvider
		}
		return domain.RoleUser
	}
}

// commandContext returns the command's context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
