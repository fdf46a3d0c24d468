package driven

import (
	"context"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

// TextExtractor reads printable text from a PDF's text layer.
type TextExtractor interface {
	// Extract reads at most pageLimit pages (<= 0 means all) and at most maxChars
	// characters (<= 0 means unlimited). Fails with domain.ErrExtractionFailed,
	// including when no page yields text.
	Extract(ctx context.Context, path string, pageLimit, maxChars int) (*domain.ExtractedText, error)
}

// Rasterizer renders PDF pages to PNG images for OCR.
type Rasterizer interface {
	// Rasterize renders pages 1..pageLimit (all when <= 0) at dpi, earliest first.
	// Returns domain.ErrOcrUnavailable when the capability is missing.
	Rasterize(ctx context.Context, path string, pageLimit int, dpi int) ([][]byte, error)

	// Name identifies the rasteriser in logs.
	Name() string
}
