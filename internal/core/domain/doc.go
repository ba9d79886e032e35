// Package domain defines the core business entities for localfinder.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Provider: A service provider listed in the marketplace
//   - Point: A WGS84 coordinate, decoded from either {lat,lng} or GeoJSON
//   - Category: A fixed service category with a server-reported count
//   - Session: An authenticated end-user or provider session
//   - FilterState: The search/category/origin inputs of the browse screen
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
