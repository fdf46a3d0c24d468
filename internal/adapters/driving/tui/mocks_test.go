package tui

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Layer() domain.SettingsLayer { return domain.SettingsLayer{} }

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	return m.Called(settings).Error(0)
}

func (m *MockSettingsService) Set(key, value string) error {
	return m.Called(key, value).Error(0)
}

func (m *MockSettingsService) Keys() []string { return nil }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *MockSettingsService) Path() string { return "/tmp/ramener/config.toml" }

// MockHistoryService is a mock implementation of driving.HistoryService.
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]domain.LedgerEntry)
	return entries, args.Error(1)
}

func (m *MockHistoryService) IsDestination(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}
