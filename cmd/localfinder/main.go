// Command localfinder is the terminal client for the local-services marketplace.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/oauth2"

	"github.com/localfinder/localfinder-cli/internal/adapters/driven/api"
	"github.com/localfinder/localfinder-cli/internal/adapters/driven/auth"
	"github.com/localfinder/localfinder-cli/internal/adapters/driven/config/env"
	"github.com/localfinder/localfinder-cli/internal/adapters/driven/config/file"
	"github.com/localfinder/localfinder-cli/internal/adapters/driven/geocode/google"
	"github.com/localfinder/localfinder-cli/internal/adapters/driven/geolocate"
	"github.com/localfinder/localfinder-cli/internal/adapters/driven/storage/sqlite"
	"github.com/localfinder/localfinder-cli/internal/adapters/driving/cli"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/services"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	err = cli.Execute(ctx)
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// tokenFunc adapts a function to auth.TokenGetter.
type tokenFunc func(domain.Role) string

func (f tokenFunc) Token(role domain.Role) string { return f(role) }

// wire builds every adapter and service and hands them to the CLI.
func wire(ctx context.Context) (func(), error) {
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	configStore, err := env.NewConfigStore(fileStore, env.DefaultDotenvFile)
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	// The client and the session service refer to each other.
	var sessions *services.SessionService
	tokens := tokenFunc(func(role domain.Role) string { return sessions.Token(role) })
	client := api.NewClient(api.Config{
		BaseURL: settings.API.BaseURL,
		Timeout: settings.Timeout(),
		Tokens: func(role domain.Role) oauth2.TokenSource {
			return auth.NewSessionTokenSource(tokens, role)
		},
		OnUnauthorized: func(role domain.Role) { sessions.HandleUnauthorized(role) },
	})
	sessions = services.NewSessionService(store, client, auth.NewJWTInspector())
	sessions.UseProfiles(client, client)
	if err := sessions.Restore(ctx); err != nil {
		logger.Warn("restore sessions: %v", err)
	}

	debounce := time.Duration(settings.Search.DebounceMS) * time.Millisecond
	browser := services.NewBrowseController(client, debounce)
	mapSync := services.NewMapSync(client, settings.Location.Default)
	unsubscribe := browser.Subscribe(mapSync.OnBrowse)

	allowed := func() bool {
		current, err := settingsService.Get()
		return err == nil && current.Location.Allow
	}
	location := services.NewLocationService(geolocate.New(settings.Location, allowed), client, browser)
	location.OnLocated(mapSync.SetUserLocation)

	geocoder := google.New(google.Config{APIKey: settings.Maps.APIKey})
	picker := services.NewLocationPicker(client, geocoder, store, sessions, settings.Location.Default)

	dataDir := filepath.Dir(store.Path())
	cli.Configure(cli.Services{
		Sessions:      sessions,
		Browser:       browser,
		Categories:    services.NewCategoryService(client),
		Detail:        services.NewDetailService(client, browser),
		Location:      location,
		MapSync:       mapSync,
		Profile:       services.NewProfileService(client),
		Picker:        picker,
		Settings:      settingsService,
		SettingSource: configStore.Source,
		StartPicker:   picker.Start,
		Reloaded:      picker.Reloaded(),
		LogFile:       filepath.Join(filepath.Dir(dataDir), "logs", "localfinder.log"),
	})

	return func() {
		unsubscribe()
		browser.Close()
		if err := store.Close(); err != nil {
			logger.Warn("close storage: %v", err)
		}
	}, nil
}
