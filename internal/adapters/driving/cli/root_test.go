package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ramener [pdf]", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmd_NoArgsShowsHelp(t *testing.T) {
	env := setupCLITest(t)

	out, _, err := run(t, "")

	require.NoError(t, err)
	assert.Contains(t, out, "ramener reads the first pages")
	assert.Empty(t, env.rename.requests)
}

func TestRootCmd_PathRenames(t *testing.T) {
	env := setupCLITest(t)

	out, _, err := run(t, "", "/docs/scan.pdf")

	require.NoError(t, err)
	require.Len(t, env.rename.requests, 1)
	assert.Equal(t, "/docs/scan.pdf", env.rename.requests[0].Path)
	assert.False(t, env.rename.requests[0].DryRun)
	assert.Contains(t, out, "/docs/2024-03-01_Acme_Invoice.pdf")
	assert.Equal(t, 1, env.closed)
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	setupCLITest(t)

	_, _, err := run(t, "", "a.pdf", "b.pdf")

	assert.Error(t, err)
}

func TestFlagLayer_OnlyChangedFlags(t *testing.T) {
	env := setupCLITest(t)

	_, _, err := run(t, "", "--api-key", "sk-flag", "--timeout", "2.5", "--page-limit", "0", "rename", "/docs/a.pdf")

	require.NoError(t, err)
	require.Len(t, env.layers, 1)
	l := env.layers[0]
	require.NotNil(t, l.APIKey)
	assert.Equal(t, "sk-flag", *l.APIKey)
	require.NotNil(t, l.Timeout)
	assert.Equal(t, 2500*time.Millisecond, *l.Timeout)
	require.NotNil(t, l.PageLimit)
	assert.Equal(t, 0, *l.PageLimit)
	assert.Nil(t, l.BaseURL)
	assert.Nil(t, l.Model)
	assert.Nil(t, l.MaxTextChars)
	assert.Nil(t, l.LogPath)
}

func TestFlagLayer_ResetBetweenRuns(t *testing.T) {
	env := setupCLITest(t)

	_, _, err := run(t, "", "--model", "m1", "rename", "/docs/a.pdf")
	require.NoError(t, err)
	_, _, err = run(t, "", "rename", "/docs/a.pdf")
	require.NoError(t, err)

	require.Len(t, env.layers, 2)
	assert.NotNil(t, env.layers[0].Model)
	assert.Nil(t, env.layers[1].Model)
}

func TestPreRun_LoadsEnvFile(t *testing.T) {
	env := setupCLITest(t)

	_, _, err := run(t, "", "--env-file", "/tmp/test.env", "version")

	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/test.env"}, env.envFiles)
}

func TestPreRun_EnvFileError(t *testing.T) {
	setupCLITest(t)
	runtimeConfig.LoadEnvFile = func(string) error { return errors.New("no such file") }

	_, _, err := run(t, "", "--env-file", "/tmp/missing.env", "version")

	assert.ErrorContains(t, err, "no such file")
}

func TestPreRun_EnvFileWithoutLoader(t *testing.T) {
	setupCLITest(t)
	runtimeConfig.LoadEnvFile = nil

	_, _, err := run(t, "", "--env-file", "/tmp/test.env", "version")

	assert.ErrorContains(t, err, "environment loader not configured")
}

func TestOpenPipeline_NoRuntime(t *testing.T) {
	setupCLITest(t)
	runtimeConfig = nil

	_, _, err := run(t, "", "rename", "/docs/a.pdf")

	assert.ErrorContains(t, err, "configuration not available")
}

func TestOpenPipeline_MissingAPIKey(t *testing.T) {
	env := setupCLITest(t)
	env.openErr = domain.ErrMissingAPIKey

	_, _, err := run(t, "", "rename", "/docs/a.pdf")

	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.Equal(t, 1, domain.ExitCode(err))
}

func TestPipeline_CloseNil(t *testing.T) {
	var p *Pipeline
	assert.NotPanics(t, func() { p.close() })
	assert.NotPanics(t, func() { (&Pipeline{}).close() })
}
