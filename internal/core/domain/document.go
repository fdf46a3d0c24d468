package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExtractedText is the excerpt pulled out of a PDF by the text extractor or the OCR fallback.
type ExtractedText struct {
	// Content is the merged page text. Never empty on success.
	Content string

	// PageCount is the number of pages that were read.
	PageCount int

	// TotalPages is the page count reported by the document.
	TotalPages int

	// Truncated reports whether Content was cut at MaxChars.
	Truncated bool

	// PageLimit is the page limit that produced Content (0 = all pages).
	PageLimit int

	// MaxChars is the character limit that produced Content (0 = unlimited).
	MaxChars int

	// ViaOCR is true when Content came from the OCR fallback.
	ViaOCR bool
}

// DocumentMetadata is the structured description of a document returned by the model.
// Nil fields are unknown.
type DocumentMetadata struct {
	Date       *string
	Source     *string
	Title      *string
	Confidence *float64
}

// HasTitle reports whether the title is present and not blank.
func (m *DocumentMetadata) HasTitle() bool {
	return m.Title != nil && strings.TrimSpace(*m.Title) != ""
}

// HasSource reports whether the source is present and not empty.
func (m *DocumentMetadata) HasSource() bool {
	return m.Source != nil && *m.Source != ""
}

// ApplyGuess merges a heuristic guess. The title is only replaced when blank
// and the source only filled when absent.
func (m *DocumentMetadata) ApplyGuess(g *TitleGuess) bool {
	if g == nil || m.HasTitle() {
		return false
	}
	title := g.Title
	m.Title = &title
	if !m.HasSource() && g.Source != "" {
		source := g.Source
		m.Source = &source
	}
	return true
}

// String renders the metadata for logs.
func (m *DocumentMetadata) String() string {
	confidence := "None"
	if m.Confidence != nil {
		confidence = fmt.Sprintf("%g", *m.Confidence)
	}
	return fmt.Sprintf("date=%s source=%s title=%s confidence=%s",
		stringOrNone(m.Date), stringOrNone(m.Source), stringOrNone(m.Title), confidence)
}

func stringOrNone(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}

// TitleGuess is a title and source recovered from raw text without the model.
type TitleGuess struct {
	Title  string
	Source string
}

// FilenamePlan is the synthesised filename and the destination it resolves to.
type FilenamePlan struct {
	// Filename is the candidate name before collision resolution.
	Filename string

	// Destination is the full path after collision resolution.
	Destination string
}

// RenameResult describes one completed pipeline run.
type RenameResult struct {
	RunID       string
	Original    string
	Destination string
	Metadata    DocumentMetadata
	UsedOCR     bool
	// TitleGuessed is true when the title came from the heuristic.
	TitleGuessed bool
	DryRun       bool
}

// LedgerEntry is one row of the rename history.
type LedgerEntry struct {
	ID          string
	RunID       string
	Original    string
	Destination string
	Date        string
	Source      string
	Title       string
	Confidence  *float64
	UsedOCR     bool
	CreatedAt   time.Time
}
