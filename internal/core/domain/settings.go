package domain

import "time"

const unknownDescription = "Unknown"

// Default configuration values.
const (
	DefaultBaseURL      = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultModel        = "qwen3-omni-flash"
	DefaultPageLimit    = 3
	DefaultTimeout      = 30 * time.Second
	DefaultMaxTextChars = 12000
)

// RasterizerKind selects how pages are rendered for OCR.
type RasterizerKind string

// Available rasterisers.
const (
	// RasterizerFitz renders pages in-process with MuPDF.
	RasterizerFitz RasterizerKind = "fitz"

	// RasterizerPdftoppm shells out to poppler's pdftoppm.
	RasterizerPdftoppm RasterizerKind = "pdftoppm"
)

// IsValid returns true if the rasteriser is recognised.
func (k RasterizerKind) IsValid() bool {
	switch k {
	case RasterizerFitz, RasterizerPdftoppm:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k RasterizerKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the rasteriser.
func (k RasterizerKind) Description() string {
	switch k {
	case RasterizerFitz:
		return "MuPDF (built in)"
	case RasterizerPdftoppm:
		return "pdftoppm (poppler)"
	default:
		return unknownDescription
	}
}

// AppSettings is the fully resolved configuration for one process.
type AppSettings struct {
	// ServiceName is a free-form label for the model provider.
	ServiceName string

	// APIKey is the bearer token for the chat-completions endpoint.
	APIKey string

	// BaseURL is the API root; requests go to BaseURL + "/chat/completions".
	BaseURL string

	// Model is used for metadata extraction.
	Model string

	// OCRModel is used for image transcription. Empty means Model.
	OCRModel string

	// PageLimit bounds the pages read (<= 0 reads all pages).
	PageLimit int

	// MaxTextChars bounds the excerpt length (<= 0 is unlimited).
	MaxTextChars int

	// Timeout bounds every remote request.
	Timeout time.Duration

	// LogPath, when set, receives a copy of all log lines.
	LogPath string

	// Rasterizer selects the OCR page renderer.
	Rasterizer RasterizerKind

	// HistoryEnabled records completed renames in the history ledger.
	HistoryEnabled bool
}

// EffectiveOCRModel returns the transcription model, falling back to Model.
func (s AppSettings) EffectiveOCRModel() string {
	if s.OCRModel != "" {
		return s.OCRModel
	}
	return s.Model
}

// HasAPIKey returns true if a key is configured.
func (s AppSettings) HasAPIKey() bool {
	return s.APIKey != ""
}

// DefaultAppSettings returns the hard defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		BaseURL:        DefaultBaseURL,
		Model:          DefaultModel,
		PageLimit:      DefaultPageLimit,
		MaxTextChars:   DefaultMaxTextChars,
		Timeout:        DefaultTimeout,
		Rasterizer:     RasterizerFitz,
		HistoryEnabled: true,
	}
}

// SettingsLayer is one configuration source (flags, environment or settings file).
// Nil fields are unset in that layer.
type SettingsLayer struct {
	ServiceName    *string
	APIKey         *string
	BaseURL        *string
	Model          *string
	OCRModel       *string
	PageLimit      *int
	MaxTextChars   *int
	Timeout        *time.Duration
	LogPath        *string
	Rasterizer     *RasterizerKind
	HistoryEnabled *bool
}
