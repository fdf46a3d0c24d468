package mcp

import (
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Rename runs the metadata pipeline.
	Rename driving.RenameService

	// History lists past renames. Optional; nil when history is disabled.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Rename == nil {
		return ErrMissingRenameService
	}
	return nil
}
