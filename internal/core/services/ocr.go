package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/logger"
)

// OCRDPI is the resolution pages are rendered at before transcription.
const OCRDPI = 300

// OCRFallback rasterises pages and asks the model to transcribe them.
// It only runs after the text extractor has failed.
type OCRFallback struct {
	rasterizer driven.Rasterizer
	analyzer   driven.MetadataAnalyzer
}

// NewOCRFallback creates the fallback. A nil rasterizer makes every call
// fail with domain.ErrOcrUnavailable.
func NewOCRFallback(rasterizer driven.Rasterizer, analyzer driven.MetadataAnalyzer) *OCRFallback {
	return &OCRFallback{rasterizer: rasterizer, analyzer: analyzer}
}

// Extract renders up to pageLimit pages (all when <= 0) and returns the trimmed
// transcription of all of them, sent in a single request.
func (o *OCRFallback) Extract(ctx context.Context, path string, pageLimit int) (string, error) {
	if o.rasterizer == nil {
		return "", fmt.Errorf("%w: no rasterizer configured", domain.ErrOcrUnavailable)
	}

	logger.Debug("Rendering pages with %s at %d DPI (limit=%s)", o.rasterizer.Name(), OCRDPI, limitLabel(pageLimit))
	images, err := o.rasterizer.Rasterize(ctx, path, pageLimit, OCRDPI)
	if err != nil {
		if errors.Is(err, domain.ErrOcrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: failed to render PDF pages for OCR: %w", domain.ErrOcrFailed, err)
	}
	if len(images) == 0 {
		return "", fmt.Errorf("%w: OCR conversion produced no images", domain.ErrOcrFailed)
	}

	transcription, err := o.analyzer.Transcribe(ctx, images)
	if err != nil {
		return "", fmt.Errorf("%w: LLM OCR failed: %w", domain.ErrOcrFailed, err)
	}
	cleaned := strings.TrimSpace(transcription)
	if cleaned == "" {
		return "", fmt.Errorf("%w: LLM OCR returned empty transcription", domain.ErrOcrFailed)
	}

	logger.Info("LLM OCR fallback extracted %d characters across %d pages (limit=%s)",
		runeLen(cleaned), len(images), limitLabel(pageLimit))
	return cleaned, nil
}

func limitLabel(limit int) string {
	if limit <= 0 {
		return "all"
	}
	return fmt.Sprintf("%d", limit)
}
