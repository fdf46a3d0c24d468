// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pure pipeline stages (Sanitize, GuessTitle, FilenameSynthesizer,
// ResolveDestination, ResolveConfig) live here alongside the services that
// sequence them. Services are pure Go with no CGO.
package services
