// Package cli provides the cobra command tree for ramener.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
	"github.com/custodia-labs/ramener/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Pipeline is the set of services for one resolved configuration.
type Pipeline struct {
	Rename  driving.RenameService
	History driving.HistoryService

	// Close releases the ledger and any other open resources. May be nil.
	Close func() error
}

// Runtime builds services once flags have been parsed. Every field is optional;
// commands that need a missing one fail with a "not configured" error.
type Runtime struct {
	// LoadEnvFile loads a .env file without overriding the real environment.
	LoadEnvFile func(path string) error

	// Resolve merges the flag layer over the environment and settings file.
	Resolve func(flags domain.SettingsLayer) (domain.AppSettings, error)

	// Open builds the rename pipeline. It fails with domain.ErrMissingAPIKey
	// when no key was resolved.
	Open func(settings domain.AppSettings) (*Pipeline, error)

	// OpenHistory opens the ledger alone, for commands that never call the model.
	OpenHistory func(settings domain.AppSettings) (driving.HistoryService, func() error, error)

	// Check sends a lightweight request to the model endpoint.
	Check func(ctx context.Context, settings domain.AppSettings) error
}

var (
	settingsService driving.SettingsService
	runtimeConfig   *Runtime
	closeLog        func() error
)

// SetSettingsService sets the settings service used by the settings commands.
func SetSettingsService(svc driving.SettingsService) {
	settingsService = svc
}

// SetRuntime sets the service factories used by the pipeline commands.
func SetRuntime(rt *Runtime) {
	runtimeConfig = rt
}

type globalFlags struct {
	verbose        bool
	logFile        string
	envFile        string
	apiKey         string
	baseURL        string
	model          string
	ocrModel       string
	pageLimit      int
	timeout        float64
	maxTextChars   int
	dryRun         bool
	fallbackPrefix string
}

var rootFlags globalFlags

var rootCmd = &cobra.Command{
	Use:   "ramener [pdf]",
	Short: "Rename PDFs from their content",
	Long: `ramener reads the first pages of a PDF, asks a language model for the
publication date, issuing organisation and title, and saves a copy named
"<date>_<source>_<title>.pdf" next to the original. The original is moved to
the trash.

Scanned documents without a text layer are rendered to images and transcribed
by the model before analysis.

Running "ramener <pdf>" is the same as "ramener rename <pdf>".`,
	Args:              cobra.MaximumNArgs(1),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runRename(cmd, args)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&rootFlags.logFile, "log-file", "", "Also write logs to this file")
	pf.StringVar(&rootFlags.envFile, "env-file", "", "Load environment variables from a .env file")
	pf.StringVar(&rootFlags.apiKey, "api-key", "", "API key for the model endpoint")
	pf.StringVar(&rootFlags.baseURL, "base-url", "", "Base URL of the OpenAI-compatible API")
	pf.StringVar(&rootFlags.model, "model", "", "Model used for metadata extraction")
	pf.StringVar(&rootFlags.ocrModel, "ocr-model", "", "Model used to transcribe scanned pages")
	pf.IntVar(&rootFlags.pageLimit, "page-limit", domain.DefaultPageLimit, "Pages to read (0 reads all)")
	pf.Float64Var(&rootFlags.timeout, "timeout", domain.DefaultTimeout.Seconds(), "Request timeout in seconds")
	pf.IntVar(&rootFlags.maxTextChars, "max-text-chars", domain.DefaultMaxTextChars, "Excerpt length limit (0 is unlimited)")
	pf.BoolVarP(&rootFlags.dryRun, "dry-run", "n", false, "Show the new name without touching any file")
	pf.StringVar(&rootFlags.fallbackPrefix, "fallback-prefix", "", "Title used when none can be determined")
}

func preRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(rootFlags.verbose)
	if rootFlags.envFile == "" {
		return nil
	}
	if runtimeConfig == nil || runtimeConfig.LoadEnvFile == nil {
		return errors.New("environment loader not configured")
	}
	return runtimeConfig.LoadEnvFile(rootFlags.envFile)
}

// flagLayer turns the flags the user actually set into a configuration layer.
func flagLayer(cmd *cobra.Command) domain.SettingsLayer {
	var l domain.SettingsLayer
	changed := cmd.Flags().Changed

	if changed("api-key") {
		l.APIKey = &rootFlags.apiKey
	}
	if changed("base-url") {
		l.BaseURL = &rootFlags.baseURL
	}
	if changed("model") {
		l.Model = &rootFlags.model
	}
	if changed("ocr-model") {
		l.OCRModel = &rootFlags.ocrModel
	}
	if changed("page-limit") {
		l.PageLimit = &rootFlags.pageLimit
	}
	if changed("max-text-chars") {
		l.MaxTextChars = &rootFlags.maxTextChars
	}
	if changed("timeout") {
		d := time.Duration(rootFlags.timeout * float64(time.Second))
		l.Timeout = &d
	}
	if changed("log-file") {
		l.LogPath = &rootFlags.logFile
	}
	return l
}

// loadSettings resolves the effective configuration and attaches the log file.
func loadSettings(cmd *cobra.Command) (domain.AppSettings, error) {
	if runtimeConfig == nil || runtimeConfig.Resolve == nil {
		return domain.AppSettings{}, errors.New("configuration not available")
	}
	settings, err := runtimeConfig.Resolve(flagLayer(cmd))
	if err != nil {
		return settings, err
	}

	if settings.LogPath != "" && closeLog == nil {
		closer, err := logger.AttachFile(settings.LogPath)
		if err != nil {
			logger.Warn("Cannot open log file %s: %v", settings.LogPath, err)
		} else {
			closeLog = closer
		}
	}
	return settings, nil
}

// openPipeline resolves settings and builds the rename pipeline.
func openPipeline(cmd *cobra.Command) (*Pipeline, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	if runtimeConfig.Open == nil {
		return nil, errors.New("rename pipeline not configured")
	}
	return runtimeConfig.Open(settings)
}

func (p *Pipeline) close() {
	if p == nil || p.Close == nil {
		return
	}
	if err := p.Close(); err != nil {
		logger.Warn("Closing pipeline: %v", err)
	}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cobra's Print helpers default to stderr; command output belongs on stdout.
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error("%v", err)
	}
	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}
	return domain.ExitCode(err)
}
