package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the persisted settings: model endpoint, API key, models
and extraction limits.

Values given as flags or RAMENER_* environment variables take precedence over
the settings file for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting in the settings file. An empty value removes the key.

Keys:
  service.name            free-form provider label
  llm.api_key             API key
  llm.base_url            OpenAI-compatible API root
  llm.model               metadata model
  llm.ocr_model           transcription model (defaults to llm.model)
  llm.timeout             request timeout in seconds
  extract.page_limit      pages to read (0 reads all)
  extract.max_text_chars  excerpt length limit (0 is unlimited)
  log.path                log file
  ocr.rasterizer          fitz or pdftoppm
  history.enabled         record renames (true or false)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the model endpoint and API key",
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var settings domain.AppSettings
	if runtimeConfig != nil && runtimeConfig.Resolve != nil {
		resolved, err := loadSettings(cmd)
		if err != nil {
			return fmt.Errorf("failed to resolve settings: %w", err)
		}
		settings = resolved
	} else {
		stored, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		settings = *stored
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Model]")
	if settings.ServiceName != "" {
		cmd.Printf("  Service: %s\n", settings.ServiceName)
	}
	cmd.Printf("  Base URL: %s\n", settings.BaseURL)
	cmd.Printf("  Model: %s\n", settings.Model)
	cmd.Printf("  OCR model: %s\n", settings.EffectiveOCRModel())
	if settings.HasAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Timeout: %s\n", settings.Timeout)
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Page limit: %s\n", limitText(settings.PageLimit))
	cmd.Printf("  Max text chars: %s\n", limitText(settings.MaxTextChars))
	cmd.Printf("  OCR rasterizer: %s\n", settings.Rasterizer.Description())
	cmd.Println()

	cmd.Println("[Other]")
	if settings.LogPath != "" {
		cmd.Printf("  Log file: %s\n", settings.LogPath)
	}
	cmd.Printf("  History: %s\n", onOff(settings.HistoryEnabled))
	cmd.Println()

	cmd.Printf("Settings file: %s\n", settingsService.Path())
	if !settings.HasAPIKey() {
		cmd.Println("Run 'ramener settings wizard' to set an API key.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	if strings.TrimSpace(args[1]) == "" {
		cmd.Printf("Removed %s\n", args[0])
		return nil
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	updated := *current
	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	cmd.Println("ramener Settings Wizard")
	cmd.Println("=======================")
	cmd.Println("Press Enter to keep the value in brackets.")
	cmd.Println()

	cmd.Println("Step 1: Model endpoint")
	cmd.Println("----------------------")
	updated.ServiceName = prompt(cmd, reader, "Service name", current.ServiceName)
	updated.BaseURL = prompt(cmd, reader, "Base URL", current.BaseURL)
	if current.HasAPIKey() {
		cmd.Printf("API key [%s]: ", maskAPIKey(current.APIKey))
	} else {
		cmd.Print("API key: ")
	}
	if key := readPassword(in, reader); key != "" {
		updated.APIKey = key
	}
	cmd.Println()
	cmd.Println()

	cmd.Println("Step 2: Models")
	cmd.Println("--------------")
	updated.Model = prompt(cmd, reader, "Metadata model", current.Model)
	updated.OCRModel = prompt(cmd, reader, "OCR model (blank uses the metadata model)", current.OCRModel)
	cmd.Println()

	cmd.Println("Step 3: Limits")
	cmd.Println("--------------")
	updated.PageLimit = promptInt(cmd, reader, "Pages to read (0 reads all)", current.PageLimit)
	updated.MaxTextChars = promptInt(cmd, reader, "Max text chars (0 is unlimited)", current.MaxTextChars)
	seconds := promptFloat(cmd, reader, "Timeout in seconds", current.Timeout.Seconds())
	updated.Timeout = time.Duration(seconds * float64(time.Second))
	cmd.Println()

	cmd.Println("Step 4: OCR rasterizer")
	cmd.Println("----------------------")
	kinds := []domain.RasterizerKind{domain.RasterizerFitz, domain.RasterizerPdftoppm}
	defaultChoice := 1
	for i, k := range kinds {
		cmd.Printf("  %d. %s\n", i+1, k.Description())
		if k == current.Rasterizer {
			defaultChoice = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultChoice)
	updated.Rasterizer = kinds[parseChoice(readLine(reader), len(kinds), defaultChoice)-1]
	cmd.Println()

	if err := settingsService.Save(&updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Printf("Saved to %s\n", settingsService.Path())
	if !updated.HasAPIKey() {
		cmd.Println("No API key is stored. Set RAMENER_API_KEY or run the wizard again.")
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if runtimeConfig == nil || runtimeConfig.Check == nil {
		return errors.New("endpoint check not configured")
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !settings.HasAPIKey() {
		return domain.ErrMissingAPIKey
	}

	cmd.Printf("Checking %s ... ", settings.BaseURL)
	if err := runtimeConfig.Check(cmd.Context(), settings); err != nil {
		cmd.Println("FAILED")
		return err
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}
	if v := readLine(reader); v != "" {
		return v
	}
	return current
}

func promptInt(cmd *cobra.Command, reader *bufio.Reader, label string, current int) int {
	cmd.Printf("%s [%d]: ", label, current)
	v := readLine(reader)
	if v == "" {
		return current
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		cmd.Printf("Not a whole number, keeping %d\n", current)
		return current
	}
	return n
}

func promptFloat(cmd *cobra.Command, reader *bufio.Reader, label string, current float64) float64 {
	cmd.Printf("%s [%g]: ", label, current)
	v := readLine(reader)
	if v == "" {
		return current
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		cmd.Printf("Not a positive number, keeping %g\n", current)
		return current
	}
	return f
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, else a plain line.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func limitText(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return strconv.Itoa(n)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
