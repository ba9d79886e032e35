// Package tui provides the interactive terminal interface for localfinder.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Browser drives the provider list.
	Browser driving.Browser

	// Categories provides the category bar with counts.
	Categories driving.CategoryService

	// Detail drives the provider detail dialog.
	Detail driving.DetailService

	// Location runs "use my location".
	Location driving.LocationService

	// MapSync draws providers and the user pin on the browse map.
	MapSync driving.MapSync

	// Picker drives the provider location picker.
	Picker driving.LocationPicker

	// Profile reads and updates the provider profile.
	Profile driving.ProfileService

	// Sessions logs users and providers in and out.
	Sessions driving.SessionService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Reloaded fires when the picker reloads after a provider token change.
	Reloaded <-chan struct{}

	// ImageBaseURL resolves relative profile image references.
	ImageBaseURL string
}

// Validate ensures the required ports are set. The optional ones disable
// the views that need them.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Browser == nil {
		return ErrMissingBrowser
	}
	if p.Detail == nil {
		return ErrMissingDetailService
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
