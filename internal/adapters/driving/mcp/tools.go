package mcp

import (
	"context"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 200
)

// SuggestInput is the input schema for the suggest_filename tool.
type SuggestInput struct {
	Path           string `json:"path" jsonschema:"absolute path of the PDF to analyse"`
	FallbackPrefix string `json:"fallback_prefix,omitempty" jsonschema:"title to use when none can be determined"`
}

// RenameInput is the input schema for the rename_pdf tool.
type RenameInput struct {
	Path           string `json:"path" jsonschema:"absolute path of the PDF to rename"`
	DryRun         bool   `json:"dry_run,omitempty" jsonschema:"compute the new name without touching any file"`
	FallbackPrefix string `json:"fallback_prefix,omitempty" jsonschema:"title to use when none can be determined"`
}

// RenameOutput describes one pipeline run.
type RenameOutput struct {
	Original     string   `json:"original"`
	Destination  string   `json:"destination"`
	Filename     string   `json:"filename"`
	Date         string   `json:"date,omitempty"`
	Source       string   `json:"source,omitempty"`
	Title        string   `json:"title,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	UsedOCR      bool     `json:"used_ocr"`
	TitleGuessed bool     `json:"title_guessed"`
	DryRun       bool     `json:"dry_run"`
}

// HistoryInput is the input schema for the rename_history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default 10)"`
}

// HistoryOutput lists recent renames, newest first.
type HistoryOutput struct {
	Entries []HistoryEntryOutput `json:"entries"`
	Count   int                  `json:"count"`
	Enabled bool                 `json:"enabled"`
}

// HistoryEntryOutput is one recorded rename.
type HistoryEntryOutput struct {
	Original    string `json:"original"`
	Destination string `json:"destination"`
	Title       string `json:"title,omitempty"`
	UsedOCR     bool   `json:"used_ocr"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_filename",
		Description: "Suggest a <date>_<source>_<title>.pdf name for a PDF without touching any file",
	}, s.handleSuggest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rename_pdf",
		Description: "Save a renamed copy of a PDF next to it and move the original to the trash",
	}, s.handleRename)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rename_history",
		Description: "List recent renames, newest first",
	}, s.handleHistory)
}

func (s *Server) handleSuggest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, RenameOutput, error) {
	return s.rename(ctx, driving.RenameRequest{
		Path:           input.Path,
		DryRun:         true,
		FallbackPrefix: input.FallbackPrefix,
	})
}

func (s *Server) handleRename(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenameInput,
) (*mcp.CallToolResult, RenameOutput, error) {
	return s.rename(ctx, driving.RenameRequest{
		Path:           input.Path,
		DryRun:         input.DryRun,
		FallbackPrefix: input.FallbackPrefix,
	})
}

func (s *Server) rename(ctx context.Context, req driving.RenameRequest) (*mcp.CallToolResult, RenameOutput, error) {
	result, err := s.ports.Rename.Rename(ctx, req)
	if err != nil {
		return nil, RenameOutput{}, err
	}
	return nil, toRenameOutput(result), nil
}

func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{Entries: []HistoryEntryOutput{}}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	entries, err := s.ports.History.Recent(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	out := HistoryOutput{
		Entries: make([]HistoryEntryOutput, len(entries)),
		Count:   len(entries),
		Enabled: true,
	}
	for i := range entries {
		out.Entries[i] = toHistoryEntry(&entries[i])
	}
	return nil, out, nil
}

func toRenameOutput(r *domain.RenameResult) RenameOutput {
	return RenameOutput{
		Original:     r.Original,
		Destination:  r.Destination,
		Filename:     baseName(r.Destination),
		Date:         deref(r.Metadata.Date),
		Source:       deref(r.Metadata.Source),
		Title:        deref(r.Metadata.Title),
		Confidence:   r.Metadata.Confidence,
		UsedOCR:      r.UsedOCR,
		TitleGuessed: r.TitleGuessed,
		DryRun:       r.DryRun,
	}
}

func toHistoryEntry(e *domain.LedgerEntry) HistoryEntryOutput {
	return HistoryEntryOutput{
		Original:    e.Original,
		Destination: e.Destination,
		Title:       e.Title,
		UsedOCR:     e.UsedOCR,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
