package driving

import (
	"context"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

// RenameRequest asks for one PDF to be renamed.
type RenameRequest struct {
	// Path is the input PDF.
	Path string

	// DryRun computes the destination without touching any file.
	DryRun bool

	// FallbackPrefix is used as the title when the metadata has none.
	FallbackPrefix string
}

// RenameService runs the metadata pipeline for one document.
type RenameService interface {
	// Rename runs extraction, analysis, filename synthesis and (unless dry run) the
	// copy and trash steps. Each call is an independent pipeline run.
	Rename(ctx context.Context, req RenameRequest) (*domain.RenameResult, error)
}

// HistoryService exposes the rename ledger.
type HistoryService interface {
	// Recent lists up to limit renames, newest first.
	Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error)

	// IsDestination reports whether path was written by an earlier rename.
	IsDestination(ctx context.Context, path string) (bool, error)
}
