// Package mcp exposes the rename pipeline to AI assistants over the Model
// Context Protocol.
package mcp

import "errors"

// ErrMissingRenameService is returned when the rename service is not provided.
var ErrMissingRenameService = errors.New("mcp: rename service is required")
