package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	saved    *domain.AppSettings
	setKey   string
	setValue string
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, m.err
}

func (m *mockSettingsService) Layer() domain.SettingsLayer { return domain.SettingsLayer{} }

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.saved = s
	return m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.err
}

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) Path() string { return "/home/test/.ramener/settings.toml" }

// mockRenameService implements driving.RenameService for testing.
type mockRenameService struct {
	requests []driving.RenameRequest
	err      error
}

func (m *mockRenameService) Rename(_ context.Context, req driving.RenameRequest) (*domain.RenameResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RenameResult{
		Original:    req.Path,
		Destination: "/docs/2024-03-01_Acme_Invoice.pdf",
		DryRun:      req.DryRun,
	}, nil
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	entries []domain.LedgerEntry
	err     error
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.LedgerEntry, error) {
	if limit < len(m.entries) {
		return m.entries[:limit], m.err
	}
	return m.entries, m.err
}

func (m *mockHistoryService) IsDestination(context.Context, string) (bool, error) {
	return false, m.err
}

// testEnv records what the commands asked of the runtime.
type testEnv struct {
	settings  *mockSettingsService
	rename    *mockRenameService
	history   *mockHistoryService
	resolved  domain.AppSettings
	layers    []domain.SettingsLayer
	envFiles  []string
	closed    int
	checkErr  error
	openErr   error
	checkedAt string
}

func setupCLITest(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
		rename:   &mockRenameService{},
		history:  &mockHistoryService{},
		resolved: domain.DefaultAppSettings(),
	}
	env.resolved.APIKey = "sk-test-abcdefgh1234"

	oldSettings, oldRuntime := settingsService, runtimeConfig
	settingsService = env.settings
	runtimeConfig = &Runtime{
		LoadEnvFile: func(path string) error {
			env.envFiles = append(env.envFiles, path)
			return nil
		},
		Resolve: func(flags domain.SettingsLayer) (domain.AppSettings, error) {
			env.layers = append(env.layers, flags)
			return env.resolved, nil
		},
		Open: func(domain.AppSettings) (*Pipeline, error) {
			if env.openErr != nil {
				return nil, env.openErr
			}
			return &Pipeline{
				Rename:  env.rename,
				History: env.history,
				Close: func() error {
					env.closed++
					return nil
				},
			}, nil
		},
		OpenHistory: func(domain.AppSettings) (driving.HistoryService, func() error, error) {
			return env.history, func() error {
				env.closed++
				return nil
			}, nil
		},
		Check: func(_ context.Context, s domain.AppSettings) error {
			env.checkedAt = s.BaseURL
			return env.checkErr
		},
	}

	t.Cleanup(func() {
		settingsService, runtimeConfig = oldSettings, oldRuntime
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return env
}

// resetFlags restores every flag in the tree, since pflag keeps values and
// Changed marks between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the command tree and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	resetFlags(rootCmd)
	return out.String(), errOut.String(), err
}
