package services

import "github.com/custodia-labs/ramener/internal/core/domain"

// ResolveConfig merges configuration layers field by field with the
// precedence flags > env > file > defaults. It reads nothing itself.
func ResolveConfig(flags, env, file domain.SettingsLayer) domain.AppSettings {
	resolved := domain.DefaultAppSettings()
	for _, layer := range []domain.SettingsLayer{file, env, flags} {
		applyLayer(&resolved, layer)
	}
	return resolved
}

func applyLayer(dst *domain.AppSettings, l domain.SettingsLayer) {
	setString(&dst.ServiceName, l.ServiceName)
	setString(&dst.APIKey, l.APIKey)
	setString(&dst.BaseURL, l.BaseURL)
	setString(&dst.Model, l.Model)
	setString(&dst.OCRModel, l.OCRModel)
	setString(&dst.LogPath, l.LogPath)
	if l.PageLimit != nil {
		dst.PageLimit = *l.PageLimit
	}
	if l.MaxTextChars != nil {
		dst.MaxTextChars = *l.MaxTextChars
	}
	if l.Timeout != nil && *l.Timeout > 0 {
		dst.Timeout = *l.Timeout
	}
	if l.Rasterizer != nil && l.Rasterizer.IsValid() {
		dst.Rasterizer = *l.Rasterizer
	}
	if l.HistoryEnabled != nil {
		dst.HistoryEnabled = *l.HistoryEnabled
	}
}

// setString treats an empty string as unset, like a missing value.
func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
