package tui

import "errors"

// ErrMissingBrowser is returned when the provider browser is not provided.
var ErrMissingBrowser = errors.New("tui: browser is required")

// ErrMissingDetailService is returned when the detail service is not provided.
var ErrMissingDetailService = errors.New("tui: detail service is required")

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
