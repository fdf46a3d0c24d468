package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRasterizerKind_IsValid(t *testing.T) {
	tests := []struct {
		kind     RasterizerKind
		expected bool
	}{
		{RasterizerFitz, true},
		{RasterizerPdftoppm, true},
		{RasterizerKind(""), false},
		{RasterizerKind("tesseract"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.IsValid())
		})
	}
}

func TestRasterizerKind_Description(t *testing.T) {
	assert.Equal(t, "MuPDF (built in)", RasterizerFitz.Description())
	assert.Equal(t, "pdftoppm (poppler)", RasterizerPdftoppm.Description())
	assert.Equal(t, "Unknown", RasterizerKind("x").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultBaseURL, s.BaseURL)
	assert.Equal(t, "qwen3-omni-flash", s.Model)
	assert.Equal(t, 3, s.PageLimit)
	assert.Equal(t, 12000, s.MaxTextChars)
	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, RasterizerFitz, s.Rasterizer)
	assert.False(t, s.HasAPIKey())
}

func TestAppSettings_EffectiveOCRModel(t *testing.T) {
	s := AppSettings{Model: "main"}
	assert.Equal(t, "main", s.EffectiveOCRModel())

	s.OCRModel = "vision"
	assert.Equal(t, "vision", s.EffectiveOCRModel())
}
