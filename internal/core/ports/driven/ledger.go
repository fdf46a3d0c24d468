package driven

import (
	"context"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

// RenameLedger records completed renames.
type RenameLedger interface {
	// Record stores one entry.
	Record(ctx context.Context, entry domain.LedgerEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error)

	// IsDestination reports whether path was produced by an earlier rename.
	IsDestination(ctx context.Context, path string) (bool, error)

	// Close releases resources.
	Close() error
}
