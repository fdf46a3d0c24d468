package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent renames",
	Long: `List renames recorded in the history database, newest first.

Dry runs are never recorded. Disable recording with
"ramener settings set history.enabled false".`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "l", 20, "Maximum number of entries")
	historyCmd.Flags().Bool("json", false, "Print entries as JSON")
	rootCmd.AddCommand(historyCmd)
}

type historyJSON struct {
	ID          string   `json:"id"`
	RunID       string   `json:"run_id"`
	Original    string   `json:"original"`
	Destination string   `json:"destination"`
	Date        string   `json:"date,omitempty"`
	Source      string   `json:"source,omitempty"`
	Title       string   `json:"title,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	UsedOCR     bool     `json:"used_ocr"`
	CreatedAt   string   `json:"created_at"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}

	if runtimeConfig == nil || runtimeConfig.OpenHistory == nil {
		return errors.New("history not configured")
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !settings.HistoryEnabled {
		cmd.Println("History is disabled.")
		return nil
	}

	history, closeHistory, err := runtimeConfig.OpenHistory(settings)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if closeHistory != nil {
		defer closeHistory() //nolint:errcheck // read-only use
	}

	entries, err := history.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if asJSON {
		return printHistoryJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No renames recorded yet.")
		return nil
	}
	for _, e := range entries {
		ocr := ""
		if e.UsedOCR {
			ocr = " (OCR)"
		}
		cmd.Printf("%s  %s%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), filepath.Base(e.Destination), ocr)
		cmd.Printf("    from %s\n", e.Original)
	}
	return nil
}

func printHistoryJSON(cmd *cobra.Command, entries []domain.LedgerEntry) error {
	out := make([]historyJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyJSON{
			ID:          e.ID,
			RunID:       e.RunID,
			Original:    e.Original,
			Destination: e.Destination,
			Date:        e.Date,
			Source:      e.Source,
			Title:       e.Title,
			Confidence:  e.Confidence,
			UsedOCR:     e.UsedOCR,
			CreatedAt:   e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
