package driving

import "github.com/custodia-labs/ramener/internal/core/domain"

// SettingsService manages persisted user settings.
type SettingsService interface {
	// Get returns the persisted settings layered over the defaults.
	Get() (*domain.AppSettings, error)

	// Layer returns only the values present in the settings file.
	Layer() domain.SettingsLayer

	// Save persists settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single key, validating its value.
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns the settings file location.
	Path() string
}
