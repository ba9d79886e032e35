// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewBrowse is the provider list with its map.
	ViewBrowse
	// ViewDetail shows one provider and takes ratings.
	ViewDetail
	// ViewPicker is the provider location picker.
	ViewPicker
	// ViewProfile edits the provider profile.
	ViewProfile
	// ViewAccount logs a user or provider in and out.
	ViewAccount
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewBrowse:
		return "browse"
	case ViewDetail:
		return "detail"
	case ViewPicker:
		return "picker"
	case ViewProfile:
		return "profile"
	case ViewAccount:
		return "account"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// BrowseUpdated carries a provider list snapshot published by the browser.
type BrowseUpdated struct {
	Snapshot domain.BrowseSnapshot
}

// CategoriesLoaded carries the category list with whatever counts were fetched.
type CategoriesLoaded struct {
	Categories []domain.Category
	Err        error
}

// Located carries the outcome of "use my location".
type Located struct {
	Point domain.Point
	Err   error
}

// ProviderSelected opens the detail dialog for a provider.
type ProviderSelected struct {
	ID string
}

// DetailLoaded carries the detail dialog state after a fetch.
type DetailLoaded struct {
	State domain.DetailState
}

// Rated carries the outcome of a rating submission.
type Rated struct {
	Rating  int
	Average float64
	Err     error
}

// PickerUpdated signals that the location picker state changed.
type PickerUpdated struct {
	State domain.PickerState
	// Message is a user-facing outcome, such as the save result.
	Message string
	Err     error
}

// PickerReloaded signals that the picker reloaded after a provider token change.
type PickerReloaded struct{}

// ProfileLoaded carries the provider profile.
type ProfileLoaded struct {
	Provider *domain.Provider
	Err      error
}

// ProfileSaved signals a profile update finished.
type ProfileSaved struct {
	Provider *domain.Provider
	Err      error
}

// SessionChanged signals a login or logout finished.
type SessionChanged struct {
	Role    domain.Role
	Session *domain.Session
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was saved.
type SettingsSaved struct {
	Key string
	Err error
}
