package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

var renameCmd = &cobra.Command{
	Use:   "rename <pdf>",
	Short: "Rename a PDF from its content",
	Long: `Extract the first pages of a PDF, ask the model for its date, source and
title, and save a renamed copy next to the original. The original is moved to
the trash.

Exit codes:
  0  renamed (or dry run)
  1  configuration error, such as a missing API key
  2  the path is not a readable .pdf file
  3  no text could be extracted, even with OCR
  4  the model request or reply failed
  5  no filename could be built
  6  copying or trashing failed

Examples:
  ramener rename ~/Downloads/report.pdf
  ramener rename --dry-run --page-limit 1 scan.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	pipeline, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer pipeline.close()

	result, err := pipeline.Rename.Rename(cmd.Context(), driving.RenameRequest{
		Path:           args[0],
		DryRun:         rootFlags.dryRun,
		FallbackPrefix: rootFlags.fallbackPrefix,
	})
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

// printResult writes the outcome of one rename to stdout.
func printResult(w io.Writer, result *domain.RenameResult) {
	if result.DryRun {
		fmt.Fprintf(w, "would rename %s -> %s\n", result.Original, result.Destination)
		return
	}
	fmt.Fprintln(w, result.Destination)
}
