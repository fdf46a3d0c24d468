package services

import (
	"context"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

const defaultHistoryLimit = 20

// HistoryService lists past renames.
type HistoryService struct {
	ledger driven.RenameLedger
}

// NewHistoryService creates a history service. A nil ledger yields no entries.
func NewHistoryService(ledger driven.RenameLedger) *HistoryService {
	return &HistoryService{ledger: ledger}
}

// Recent lists up to limit renames, newest first. limit <= 0 uses 20.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	if s.ledger == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.ledger.Recent(ctx, limit)
}

// IsDestination reports whether path was produced by an earlier rename.
func (s *HistoryService) IsDestination(ctx context.Context, path string) (bool, error) {
	if s.ledger == nil {
		return false, nil
	}
	return s.ledger.IsDestination(ctx, path)
}
