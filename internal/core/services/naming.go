package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

const (
	pdfExtension    = ".pdf"
	maxSegmentRunes = 60
	isoDateLayout   = "2006-01-02"
	defaultDateYear = 2000
)

var reservedCharsPattern = regexp.MustCompile(`[\\/:*?"<>|]+`)

// dateLayouts are tried before the free-form parser. Missing fields default to
// January 1st; a missing year defaults to 2000. Dotted numeric dates are read
// month first, then day first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"20060102",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006年1月2日",
	"2006年1月",
	"2006-1",
	"2006/1",
	"2006.1",
	"January 2006",
	"Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2",
	"Jan 2",
	"1.2.2006",
	"2.1.2006",
	"January",
	"Jan",
	"2006",
}

// timeOnlyPattern matches a clock time with no date, such as "4:30" or "4:30 pm".
var timeOnlyPattern = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(:\d{2})?\s*([ap]\.?m\.?)?$`)

// FilenameSynthesizer turns metadata into a safe "date_source_title.pdf" name.
type FilenameSynthesizer struct {
	now func() time.Time
}

// NewFilenameSynthesizer creates a synthesizer that uses the local clock
// when the metadata has no usable date.
func NewFilenameSynthesizer() *FilenameSynthesizer {
	return &FilenameSynthesizer{now: time.Now}
}

// Build synthesises the filename for originalPath. The title falls back to
// fallbackPrefix, then the original stem, when it normalises to nothing.
// Fails with domain.ErrFilenameBuild unless the original is a PDF.
func (f *FilenameSynthesizer) Build(meta *domain.DocumentMetadata, originalPath, fallbackPrefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalPath))
	if ext != pdfExtension {
		return "", fmt.Errorf("%w: only PDF files are supported for renaming, got %q", domain.ErrFilenameBuild, ext)
	}
	if meta == nil {
		meta = &domain.DocumentMetadata{}
	}

	date, ok := "", false
	if meta.Date != nil {
		date, ok = NormalizeDate(*meta.Date)
	}
	if !ok {
		date = f.now().Format(isoDateLayout)
	}

	parts := []string{date}
	if meta.Source != nil {
		if source := SanitizeSegment(*meta.Source); source != "" {
			parts = append(parts, source)
		}
	}

	title := ""
	if meta.Title != nil {
		title = SanitizeSegment(*meta.Title)
	}
	if title == "" {
		title = SanitizeSegment(fallbackPrefix)
	}
	if title == "" {
		base := filepath.Base(originalPath)
		title = SanitizeSegment(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if title != "" {
		parts = append(parts, title)
	}

	return strings.Join(parts, "_") + ext, nil
}

// SanitizeSegment normalises one filename component. Non-printable runes,
// including line and paragraph separators, are dropped; reserved characters
// become "_"; the result is trimmed of " _-" and cut to 60 runes.
func SanitizeSegment(value string) string {
	if value == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, norm.NFKC.String(value))
	cleaned = reservedCharsPattern.ReplaceAllLiteralString(cleaned, "_")
	cleaned = whitespacePattern.ReplaceAllLiteralString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " _-")
	if cleaned == "" {
		return ""
	}
	return strings.TrimRightFunc(truncateRunes(cleaned, maxSegmentRunes), unicode.IsSpace)
}

// NormalizeDate leniently parses value and renders it as YYYY-MM-DD.
func NormalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if timeOnlyPattern.MatchString(value) {
		// Every date field is unspecified.
		return fmt.Sprintf("%04d-01-01", defaultDateYear), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return withDefaultYear(t).Format(isoDateLayout), true
		}
	}
	t, err := dateparse.ParseLocal(value)
	if err != nil {
		return "", false
	}
	return withDefaultYear(t).Format(isoDateLayout), true
}

func withDefaultYear(t time.Time) time.Time {
	if t.Year() != 0 {
		return t
	}
	return time.Date(defaultDateYear, t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ResolveDestination returns dir/filename, or the first free "stem-N.ext"
// variant when that name is taken.
func ResolveDestination(dir, filename string, exists func(string) bool) string {
	candidate := filepath.Join(dir, filename)
	if !exists(candidate) {
		return candidate
	}
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := 1; ; n++ {
		candidate = filepath.Join(dir, stem+"-"+strconv.Itoa(n)+ext)
		if !exists(candidate) {
			return candidate
		}
	}
}
