package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
	"github.com/custodia-labs/ramener/internal/logger"
)

// Ensure RenameService implements the interface.
var _ driving.RenameService = (*RenameService)(nil)

// RenameService sequences the pipeline for one document: extraction, OCR
// fallback, sanitisation, analysis, title heuristic, filename synthesis and
// the copy/trash side effects.
type RenameService struct {
	settings  domain.AppSettings
	extractor driven.TextExtractor
	ocr       *OCRFallback
	analyzer  driven.MetadataAnalyzer
	files     driven.FileOps
	ledger    driven.RenameLedger
	namer     *FilenameSynthesizer
}

// NewRenameService creates a rename service. ledger may be nil.
func NewRenameService(
	settings domain.AppSettings,
	extractor driven.TextExtractor,
	ocr *OCRFallback,
	analyzer driven.MetadataAnalyzer,
	files driven.FileOps,
	ledger driven.RenameLedger,
) *RenameService {
	return &RenameService{
		settings:  settings,
		extractor: extractor,
		ocr:       ocr,
		analyzer:  analyzer,
		files:     files,
		ledger:    ledger,
		namer:     NewFilenameSynthesizer(),
	}
}

// Rename runs the pipeline once. No file is touched unless every stage before
// the copy succeeded.
func (s *RenameService) Rename(ctx context.Context, req driving.RenameRequest) (*domain.RenameResult, error) {
	runID := uuid.NewString()

	path, err := ValidatePDFPath(req.Path)
	if err != nil {
		logger.Error("[%s] %v", runID, err)
		return nil, err
	}

	logger.Section("Rename " + filepath.Base(path))
	logger.Info("[%s] Effective limits: page_limit=%s, max_text_chars=%s",
		runID, limitLabel(s.settings.PageLimit), limitLabel(s.settings.MaxTextChars))
	logger.Info("[%s] Using models: metadata=%s ocr=%s", runID, s.settings.Model, s.settings.EffectiveOCRModel())
	logger.Info("[%s] Processing %s", runID, path)

	excerpt, err := s.extract(ctx, runID, path)
	if err != nil {
		return nil, err
	}

	sanitized := Sanitize(excerpt.Content)
	if sanitized != excerpt.Content {
		logger.Debug("[%s] Excerpt sanitized before LLM request", runID)
	}
	logger.Info("[%s] Excerpt for LLM: original_chars=%d sanitized_chars=%d pages=%d truncated=%t",
		runID, runeLen(excerpt.Content), runeLen(sanitized), excerpt.PageCount, excerpt.Truncated)

	meta, err := s.analyzer.Analyze(ctx, sanitized)
	if err != nil {
		logger.Error("[%s] LLM request failed: %v", runID, err)
		return nil, err
	}

	result := &domain.RenameResult{
		RunID:    runID,
		Original: path,
		UsedOCR:  excerpt.ViaOCR,
		DryRun:   req.DryRun,
	}

	if !meta.HasTitle() {
		if meta.ApplyGuess(GuessTitle(excerpt.Content)) {
			result.TitleGuessed = true
			logger.Info("[%s] Title fallback applied from PDF text: %s", runID, *meta.Title)
		}
	}
	logger.Info("[%s] Metadata extracted: %s", runID, meta)
	result.Metadata = *meta

	filename, err := s.namer.Build(meta, path, req.FallbackPrefix)
	if err != nil {
		logger.Error("[%s] Filename creation failed: %v", runID, err)
		return nil, err
	}
	result.Destination = ResolveDestination(filepath.Dir(path), filename, s.files.Exists)

	if req.DryRun {
		logger.Info("[%s] Dry run enabled. New file would be: %s", runID, result.Destination)
		return result, nil
	}

	if err := s.files.Copy(path, result.Destination); err != nil {
		logger.Error("[%s] File operations failed: %v", runID, err)
		return nil, fmt.Errorf("%w: failed to copy file: %w", domain.ErrFileOperation, err)
	}
	if err := s.files.Trash(path); err != nil {
		logger.Error("[%s] File operations failed: %v", runID, err)
		return nil, fmt.Errorf("%w: failed to move original to trash: %w", domain.ErrFileOperation, err)
	}
	logger.Info("[%s] Renamed copy saved to %s", runID, result.Destination)

	s.record(ctx, result)
	return result, nil
}

// extract reads the text layer and falls back to OCR when it fails.
func (s *RenameService) extract(ctx context.Context, runID, path string) (*domain.ExtractedText, error) {
	excerpt, err := s.extractor.Extract(ctx, path, s.settings.PageLimit, s.settings.MaxTextChars)
	if err == nil {
		return excerpt, nil
	}
	if !errors.Is(err, domain.ErrExtractionFailed) {
		logger.Error("[%s] PDF extraction aborted: %v", runID, err)
		return nil, err
	}

	logger.Warn("[%s] PDF extraction failed: %v. Attempting OCR fallback.", runID, err)
	text, ocrErr := s.ocr.Extract(ctx, path, s.settings.PageLimit)
	if ocrErr != nil {
		if errors.Is(ocrErr, domain.ErrOcrUnavailable) {
			logger.Error("[%s] OCR fallback unavailable: %v", runID, ocrErr)
		} else {
			logger.Error("[%s] OCR fallback failed: %v", runID, ocrErr)
		}
		return nil, ocrErr
	}
	logger.Info("[%s] OCR fallback succeeded; continuing with extracted text", runID)

	return &domain.ExtractedText{
		Content:   text,
		PageLimit: s.settings.PageLimit,
		ViaOCR:    true,
	}, nil
}

func (s *RenameService) record(ctx context.Context, result *domain.RenameResult) {
	if s.ledger == nil {
		return
	}
	entry := domain.LedgerEntry{
		ID:          uuid.NewString(),
		RunID:       result.RunID,
		Original:    result.Original,
		Destination: result.Destination,
		Date:        deref(result.Metadata.Date),
		Source:      deref(result.Metadata.Source),
		Title:       deref(result.Metadata.Title),
		Confidence:  result.Metadata.Confidence,
		UsedOCR:     result.UsedOCR,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		logger.Warn("[%s] Failed to record rename history: %v", result.RunID, err)
	}
}

// ValidatePDFPath expands "~" and checks that path is an existing regular
// file with a .pdf suffix.
func ValidatePDFPath(path string) (string, error) {
	path = ExpandHome(strings.TrimSpace(path))
	if path == "" {
		return "", fmt.Errorf("%w: no PDF file supplied", domain.ErrInvalidPath)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: input file does not exist: %s", domain.ErrInvalidPath, path)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: input path is not a file: %s", domain.ErrInvalidPath, path)
	}
	if strings.ToLower(filepath.Ext(path)) != pdfExtension {
		return "", fmt.Errorf("%w: only PDF files are supported: %s", domain.ErrInvalidPath, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
