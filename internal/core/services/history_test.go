package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

func TestHistoryService_Recent(t *testing.T) {
	ledger := &mockLedger{entries: []domain.LedgerEntry{{ID: "a"}, {ID: "b"}}}
	svc := NewHistoryService(ledger)

	entries, err := svc.Recent(context.Background(), 5)

	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 5, ledger.gotLimit)
}

func TestHistoryService_DefaultLimit(t *testing.T) {
	ledger := &mockLedger{}

	_, err := NewHistoryService(ledger).Recent(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, ledger.gotLimit)
}

func TestHistoryService_NilLedger(t *testing.T) {
	entries, err := NewHistoryService(nil).Recent(context.Background(), 5)

	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestHistoryService_IsDestination(t *testing.T) {
	ledger := &mockLedger{entries: []domain.LedgerEntry{{Destination: "/docs/2024_WHO_Report.pdf"}}}
	svc := NewHistoryService(ledger)

	ok, err := svc.IsDestination(context.Background(), "/docs/2024_WHO_Report.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsDestination(context.Background(), "/docs/scan.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryService_IsDestination_NilLedger(t *testing.T) {
	ok, err := NewHistoryService(nil).IsDestination(context.Background(), "/docs/a.pdf")

	require.NoError(t, err)
	assert.False(t, ok)
}
