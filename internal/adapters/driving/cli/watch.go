package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ramener/internal/adapters/driving/watch"
	"github.com/custodia-labs/ramener/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Rename PDFs as they arrive in a directory",
	Long: `Watch a directory and rename each new PDF once it has stopped changing.

Hidden files, non-PDF files and files written by an earlier rename are
skipped. A failed file is logged and the watch continues. Press Ctrl+C to stop.

Examples:
  ramener watch ~/Downloads
  ramener watch --dry-run --debounce 5 ~/Scans`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Float64("debounce", watch.DefaultDebounce.Seconds(), "Seconds a file must stay unchanged")
	watchCmd.Flags().Float64("rate", watch.DefaultRatePerSecond, "Maximum renames per second")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetFloat64("debounce")
	if err != nil {
		return err
	}
	rps, err := cmd.Flags().GetFloat64("rate")
	if err != nil {
		return err
	}

	pipeline, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer pipeline.close()

	w := watch.New(pipeline.Rename, pipeline.History, watch.Config{
		Dir:            args[0],
		Debounce:       time.Duration(debounce * float64(time.Second)),
		RatePerSecond:  rps,
		DryRun:         rootFlags.dryRun,
		FallbackPrefix: rootFlags.fallbackPrefix,
		OnResult: func(path string, result *domain.RenameResult, err error) {
			if err != nil {
				cmd.PrintErrf("%s: %v\n", filepath.Base(path), err)
				return
			}
			printResult(cmd.OutOrStdout(), result)
		},
	})
	return w.Run(cmd.Context())
}
