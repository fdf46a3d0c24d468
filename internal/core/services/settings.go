package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyServiceName    = "service.name"
	KeyAPIKey         = "llm.api_key"
	KeyBaseURL        = "llm.base_url"
	KeyModel          = "llm.model"
	KeyOCRModel       = "llm.ocr_model"
	KeyTimeout        = "llm.timeout"
	KeyPageLimit      = "extract.page_limit"
	KeyMaxTextChars   = "extract.max_text_chars"
	KeyLogPath        = "log.path"
	KeyRasterizer     = "ocr.rasterizer"
	KeyHistoryEnabled = "history.enabled"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindSeconds
	kindBool
	kindRasterizer
)

var settingKeys = map[string]keyKind{
	KeyServiceName:    kindString,
	KeyAPIKey:         kindString,
	KeyBaseURL:        kindString,
	KeyModel:          kindString,
	KeyOCRModel:       kindString,
	KeyTimeout:        kindSeconds,
	KeyPageLimit:      kindInt,
	KeyMaxTextChars:   kindInt,
	KeyLogPath:        kindString,
	KeyRasterizer:     kindRasterizer,
	KeyHistoryEnabled: kindBool,
}

// SettingsService manages the persisted settings file.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the persisted settings layered over the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	resolved := ResolveConfig(domain.SettingsLayer{}, domain.SettingsLayer{}, s.Layer())
	return &resolved, nil
}

// Layer returns only the values present in the settings file.
func (s *SettingsService) Layer() domain.SettingsLayer {
	var l domain.SettingsLayer
	l.ServiceName = s.getString(KeyServiceName)
	l.APIKey = s.getString(KeyAPIKey)
	l.BaseURL = s.getString(KeyBaseURL)
	l.Model = s.getString(KeyModel)
	l.OCRModel = s.getString(KeyOCRModel)
	l.LogPath = s.getString(KeyLogPath)
	if _, ok := s.configStore.Get(KeyPageLimit); ok {
		v := s.configStore.GetInt(KeyPageLimit)
		l.PageLimit = &v
	}
	if _, ok := s.configStore.Get(KeyMaxTextChars); ok {
		v := s.configStore.GetInt(KeyMaxTextChars)
		l.MaxTextChars = &v
	}
	if _, ok := s.configStore.Get(KeyTimeout); ok {
		v := secondsToDuration(s.configStore.GetFloat(KeyTimeout))
		l.Timeout = &v
	}
	if raw := s.getString(KeyRasterizer); raw != nil {
		k := domain.RasterizerKind(*raw)
		l.Rasterizer = &k
	}
	if _, ok := s.configStore.Get(KeyHistoryEnabled); ok {
		v := s.configStore.GetBool(KeyHistoryEnabled)
		l.HistoryEnabled = &v
	}
	return l
}

// Save persists application settings. An empty API key leaves the stored key untouched.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyServiceName, settings.ServiceName},
		{KeyBaseURL, settings.BaseURL},
		{KeyModel, settings.Model},
		{KeyOCRModel, settings.OCRModel},
		{KeyTimeout, settings.Timeout.Seconds()},
		{KeyPageLimit, settings.PageLimit},
		{KeyMaxTextChars, settings.MaxTextChars},
		{KeyLogPath, settings.LogPath},
		{KeyRasterizer, settings.Rasterizer.String()},
		{KeyHistoryEnabled, settings.HistoryEnabled},
	}
	if settings.APIKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{KeyAPIKey, settings.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and stores it. An empty value removes the key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (valid: %s)", domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return s.configStore.Delete(key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindSeconds:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number of seconds", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindRasterizer:
		if !domain.RasterizerKind(value).IsValid() {
			return fmt.Errorf("%w: %s must be %q or %q", domain.ErrInvalidInput, key,
				domain.RasterizerFitz, domain.RasterizerPdftoppm)
		}
		parsed = value
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the settings file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// getString returns nil for missing or blank values.
func (s *SettingsService) getString(key string) *string {
	v := strings.TrimSpace(s.configStore.GetString(key))
	if v == "" {
		return nil
	}
	return &v
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
