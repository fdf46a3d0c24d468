// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ramener/internal/core/domain"
)

// EntryList displays rename history entries in a navigable list.
type EntryList struct {
	entries  []domain.LedgerEntry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEntryList creates an empty entry list.
func NewEntryList(s *styles.Styles) *EntryList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &EntryList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation keys.
func (l *EntryList) Update(msg tea.Msg) (*EntryList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of entries, two lines each.
func (l *EntryList) View() string {
	if len(l.entries) == 0 {
		return l.styles.Muted.Render("No renames recorded yet")
	}

	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.entries))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntry(i, &l.entries[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *EntryList) renderEntry(index int, e *domain.LedgerEntry) string {
	indicator := "  "
	style := l.styles.Normal
	if index == l.selected {
		indicator = "> "
		style = l.styles.Selected
	}

	name := truncate(filepath.Base(e.Destination), l.width-24)
	when := e.CreatedAt.Local().Format("2006-01-02 15:04")
	head := style.Render(fmt.Sprintf("%s%s", indicator, name)) + "  " + l.styles.Muted.Render(when)

	detail := "from " + filepath.Base(e.Original)
	if e.UsedOCR {
		detail += " (OCR)"
	}
	if e.Confidence != nil {
		detail += fmt.Sprintf("  confidence %.2f", *e.Confidence)
	}
	return head + "\n" + l.styles.Muted.Render("    "+truncate(detail, l.width-6))
}

func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetEntries replaces the entries and resets the selection.
func (l *EntryList) SetEntries(entries []domain.LedgerEntry) {
	l.entries = entries
	l.selected = 0
}

// Entries returns the current entries.
func (l *EntryList) Entries() []domain.LedgerEntry {
	return l.entries
}

// Selected returns the index of the selected entry.
func (l *EntryList) Selected() int {
	return l.selected
}

// SelectedEntry returns the selected entry, or nil if the list is empty.
func (l *EntryList) SelectedEntry() *domain.LedgerEntry {
	if l.selected < 0 || l.selected >= len(l.entries) {
		return nil
	}
	return &l.entries[l.selected]
}

// MoveUp moves selection up.
func (l *EntryList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *EntryList) MoveDown() {
	if l.selected < len(l.entries)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *EntryList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of entries.
func (l *EntryList) Count() int {
	return len(l.entries)
}
