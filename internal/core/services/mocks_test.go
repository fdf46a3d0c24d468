package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

// --- Mock implementations ---

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text  *domain.ExtractedText
	err   error
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, _ string, pageLimit, maxChars int) (*domain.ExtractedText, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	text := *m.text
	text.PageLimit = pageLimit
	text.MaxChars = maxChars
	return &text, nil
}

// mockRasterizer implements driven.Rasterizer for testing.
type mockRasterizer struct {
	images    [][]byte
	err       error
	gotLimit  int
	gotDPI    int
	callCount int
}

func (m *mockRasterizer) Rasterize(_ context.Context, _ string, pageLimit int, dpi int) ([][]byte, error) {
	m.callCount++
	m.gotLimit = pageLimit
	m.gotDPI = dpi
	return m.images, m.err
}

func (m *mockRasterizer) Name() string { return "mock" }

// mockAnalyzer implements driven.MetadataAnalyzer for testing.
type mockAnalyzer struct {
	meta          *domain.DocumentMetadata
	analyzeErr    error
	transcription string
	transcribeErr error
	excerpts      []string
	images        [][]byte
}

func (m *mockAnalyzer) Analyze(_ context.Context, excerpt string) (*domain.DocumentMetadata, error) {
	m.excerpts = append(m.excerpts, excerpt)
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	meta := *m.meta
	return &meta, nil
}

func (m *mockAnalyzer) Transcribe(_ context.Context, images [][]byte) (string, error) {
	m.images = images
	return m.transcription, m.transcribeErr
}

func (m *mockAnalyzer) ModelName() string { return "mock-model" }

// mockFiles implements driven.FileOps for testing.
type mockFiles struct {
	existing map[string]bool
	copyErr  error
	trashErr error
	copies   [][2]string
	trashed  []string
}

func (m *mockFiles) Exists(path string) bool { return m.existing[path] }

func (m *mockFiles) Copy(src, dst string) error {
	if m.copyErr != nil {
		return m.copyErr
	}
	m.copies = append(m.copies, [2]string{src, dst})
	return nil
}

func (m *mockFiles) Trash(path string) error {
	if m.trashErr != nil {
		return m.trashErr
	}
	m.trashed = append(m.trashed, path)
	return nil
}

// mockLedger implements driven.RenameLedger for testing.
type mockLedger struct {
	entries   []domain.LedgerEntry
	recordErr error
	gotLimit  int
}

func (m *mockLedger) Record(_ context.Context, entry domain.LedgerEntry) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLedger) Recent(_ context.Context, limit int) ([]domain.LedgerEntry, error) {
	m.gotLimit = limit
	return m.entries, nil
}

func (m *mockLedger) IsDestination(_ context.Context, path string) (bool, error) {
	for _, e := range m.entries {
		if e.Destination == path {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLedger) Close() error { return nil }

var errBoom = errors.New("boom")
