package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch <dir>", watchCmd.Use)
	assert.NotNil(t, watchCmd.Flags().Lookup("debounce"))
	assert.NotNil(t, watchCmd.Flags().Lookup("rate"))
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	env := setupCLITest(t)

	_, _, err := run(t, "", "watch", filepath.Join(t.TempDir(), "missing"))

	assert.ErrorIs(t, err, domain.ErrInvalidPath)
	assert.Equal(t, 1, env.closed)
}

func TestWatchCmd_MissingAPIKey(t *testing.T) {
	env := setupCLITest(t)
	env.openErr = domain.ErrMissingAPIKey

	_, _, err := run(t, "", "watch", t.TempDir())

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestMCPServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", mcpServeCmd.Use)
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("port"))
}

func TestMCPServeCmd_MissingAPIKey(t *testing.T) {
	env := setupCLITest(t)
	env.openErr = domain.ErrMissingAPIKey

	_, _, err := run(t, "", "mcp", "serve")

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}
