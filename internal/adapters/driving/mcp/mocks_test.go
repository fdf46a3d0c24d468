package mcp

import (
	"context"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

// mockRenameService is a mock implementation of driving.RenameService.
type mockRenameService struct {
	result *domain.RenameResult
	err    error
	got    driving.RenameRequest
}

func (m *mockRenameService) Rename(_ context.Context, req driving.RenameRequest) (*domain.RenameResult, error) {
	m.got = req
	return m.result, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries   []domain.LedgerEntry
	err       error
	lastLimit int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.LedgerEntry, error) {
	m.lastLimit = limit
	return m.entries, m.err
}

func (m *mockHistoryService) IsDestination(context.Context, string) (bool, error) {
	return false, m.err
}
