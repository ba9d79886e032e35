// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): the marketplace API, the
// session store, geocoding and geolocation.
//
// Services are pure Go with no CGO or external dependencies.
package services
