// Package pdftext reads the text layer of PDF files.
//
// Two page readers are tried in order: ledongthuc/pdf, which decodes fonts
// and CMaps, then pdfcpu, which is more tolerant of damaged cross-reference
// tables but only understands simple string operators.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// pageSource is an opened document that yields plain text per page.
type pageSource interface {
	// NumPage returns the total page count.
	NumPage() int

	// PageText returns the raw text of page n (1-based).
	PageText(n int) (string, error)

	Close() error
}

// reader opens a document with one parsing backend.
type reader struct {
	name string
	open func(path string) (pageSource, error)
}

// Extractor implements driven.TextExtractor over a chain of readers.
type Extractor struct {
	readers []reader
}

// NewExtractor returns an extractor that tries ledongthuc/pdf, then pdfcpu.
func NewExtractor() *Extractor {
	return &Extractor{readers: []reader{
		{name: "ledongthuc", open: openLedongthuc},
		{name: "pdfcpu", open: openPdfcpu},
	}}
}

// Extract reads the first pages of the PDF at path.
func (e *Extractor) Extract(ctx context.Context, path string, pageLimit, maxChars int) (*domain.ExtractedText, error) {
	var errs []error
	for _, rd := range e.readers {
		text, err := e.extractWith(ctx, rd, path, pageLimit, maxChars)
		if err == nil {
			logger.Debug("Extracted %d characters from %d/%d pages with %s",
				len([]rune(text.Content)), text.PageCount, text.TotalPages, rd.name)
			return text, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Debug("Reader %s: %v", rd.name, err)
		errs = append(errs, fmt.Errorf("%s: %w", rd.name, err))
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, errors.Join(errs...))
}

func (e *Extractor) extractWith(ctx context.Context, rd reader, path string, pageLimit, maxChars int) (*domain.ExtractedText, error) {
	src, err := rd.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	defer src.Close()

	return collect(ctx, src, pageLimit, maxChars)
}

// collect merges "[Page N] text" chunks, skipping empty pages and stopping
// once the chunk total reaches maxChars.
func collect(ctx context.Context, src pageSource, pageLimit, maxChars int) (*domain.ExtractedText, error) {
	total := src.NumPage()
	pages := total
	if pageLimit > 0 && pageLimit < total {
		pages = pageLimit
	}

	var (
		chunks []string
		size   int
		read   int
	)
	for n := 1; n <= pages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := src.PageText(n)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", n, err)
		}
		read++

		if cleaned := strings.Join(strings.Fields(raw), " "); cleaned != "" {
			chunk := fmt.Sprintf("[Page %d] %s", n, cleaned)
			chunks = append(chunks, chunk)
			size += len([]rune(chunk))
		}
		if maxChars > 0 && size >= maxChars {
			break
		}
	}

	merged := strings.Join(chunks, "\n")
	truncated := false
	if maxChars > 0 {
		if runes := []rune(merged); len(runes) > maxChars {
			merged = string(runes[:maxChars])
			truncated = true
		}
	}
	if merged == "" {
		return nil, errors.New("no extractable text found in the first pages of the PDF")
	}

	return &domain.ExtractedText{
		Content:    merged,
		PageCount:  read,
		TotalPages: total,
		Truncated:  truncated,
		PageLimit:  pageLimit,
		MaxChars:   maxChars,
	}, nil
}
