// Package tui provides the interactive terminal interface for ramener.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Settings reads and writes the settings file.
	Settings driving.SettingsService

	// History lists past renames. Nil when the ledger is disabled.
	History driving.HistoryService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
