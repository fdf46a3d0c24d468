// Command ramener renames PDFs from their content.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/ramener/internal/adapters/driven/config/env"
	"github.com/custodia-labs/ramener/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ramener/internal/adapters/driven/fileops"
	"github.com/custodia-labs/ramener/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ramener/internal/adapters/driven/ocr"
	"github.com/custodia-labs/ramener/internal/adapters/driven/pdftext"
	"github.com/custodia-labs/ramener/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ramener/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ramener/internal/adapters/driving/cli"
	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
	"github.com/custodia-labs/ramener/internal/core/services"
	"github.com/custodia-labs/ramener/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	dataDir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ramener: %v\n", err)
		return 1
	}

	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		logger.Warn("Settings file unavailable, changes will not be saved: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}
	settingsSvc := services.NewSettingsService(configStore)

	cli.SetSettingsService(settingsSvc)
	cli.SetRuntime(&cli.Runtime{
		LoadEnvFile: env.LoadDotEnv,
		Resolve: func(flags domain.SettingsLayer) (domain.AppSettings, error) {
			envLayer, err := env.NewReader().Layer(flags.APIKey != nil)
			if err != nil {
				return domain.AppSettings{}, err
			}
			return services.ResolveConfig(flags, envLayer, settingsSvc.Layer()), nil
		},
		Open: func(settings domain.AppSettings) (*cli.Pipeline, error) {
			return openPipeline(settings, dataDir)
		},
		OpenHistory: func(settings domain.AppSettings) (driving.HistoryService, func() error, error) {
			if !settings.HistoryEnabled {
				return nil, nil, nil
			}
			store, err := sqlite.NewStore(dataDir)
			if err != nil {
				return nil, nil, err
			}
			return services.NewHistoryService(store), store.Close, nil
		},
		Check: func(ctx context.Context, settings domain.AppSettings) error {
			client, err := newClient(settings)
			if err != nil {
				return err
			}
			return client.Ping(ctx)
		},
	})

	return cli.Execute()
}

func newClient(settings domain.AppSettings) (*openai.MetadataClient, error) {
	return openai.NewMetadataClient(openai.Config{
		APIKey:   settings.APIKey,
		BaseURL:  settings.BaseURL,
		Model:    settings.Model,
		OCRModel: settings.EffectiveOCRModel(),
		Timeout:  settings.Timeout,
	})
}

// openPipeline wires the adapters for one resolved configuration.
func openPipeline(settings domain.AppSettings, dataDir string) (*cli.Pipeline, error) {
	client, err := newClient(settings)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore("", openai.DefaultPrompts())
	if err != nil {
		logger.Warn("Prompt overrides unavailable, using built-in prompts: %v", err)
	} else {
		client.SetPromptStore(prompts)
	}

	var (
		ledger  driven.RenameLedger
		closers []func() error
	)
	if settings.HistoryEnabled {
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			logger.Warn("History disabled for this run: %v", err)
		} else {
			ledger = store
			closers = append(closers, store.Close)
		}
	}

	fallback := services.NewOCRFallback(ocr.New(settings.Rasterizer), client)
	rename := services.NewRenameService(
		settings,
		pdftext.NewExtractor(),
		fallback,
		client,
		fileops.NewLocal(),
		ledger,
	)

	var history driving.HistoryService
	if ledger != nil {
		history = services.NewHistoryService(ledger)
	}

	return &cli.Pipeline{
		Rename:  rename,
		History: history,
		Close: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}, nil
}
