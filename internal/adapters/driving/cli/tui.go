package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ramener/internal/adapters/driving/tui"
	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ramener/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the terminal interface to edit settings and browse the rename history.

Controls:
  ↑/k, ↓/j   Navigate
  Enter      Select
  Tab        Next field
  Ctrl+S     Save settings
  Esc        Back
  q          Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd, messages.ViewMenu)
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in a full screen form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd, messages.ViewSettings)
	},
}

func init() {
	settingsCmd.AddCommand(settingsEditCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, start messages.ViewType) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	ports := &tui.Ports{Settings: settingsService}

	if start != messages.ViewSettings && runtimeConfig != nil && runtimeConfig.OpenHistory != nil {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		history, closeHistory, err := runtimeConfig.OpenHistory(settings)
		if err != nil {
			logger.Warn("History unavailable: %v", err)
		} else {
			ports.History = history
			if closeHistory != nil {
				defer closeHistory() //nolint:errcheck // best-effort close on exit
			}
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).StartAt(start)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
