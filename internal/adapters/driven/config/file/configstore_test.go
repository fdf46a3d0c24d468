package file

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDirFromEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv(ConfigDirEnv, dir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	assert.DirExists(t, dir)
}

func TestDefaultDir_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(ConfigDirEnv, "")

	dir, err := DefaultDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "ramener"), dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "qwen-plus"))
	require.NoError(t, store.Set("extract.page_limit", 5))
	require.NoError(t, store.Set("llm.timeout", 12.5))
	require.NoError(t, store.Set("history.enabled", true))

	assert.Equal(t, "qwen-plus", store.GetString("llm.model"))
	assert.Equal(t, 5, store.GetInt("extract.page_limit"))
	assert.InDelta(t, 12.5, store.GetFloat("llm.timeout"), 1e-9)
	assert.InDelta(t, 5.0, store.GetFloat("extract.page_limit"), 1e-9)
	assert.True(t, store.GetBool("history.enabled"))

	// Wrong types and missing keys fall back to zero values.
	assert.Equal(t, "", store.GetString("extract.page_limit"))
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("llm.model"))
}

func TestConfigStore_QuotedNumbers(t *testing.T) {
	dir := t.TempDir()
	content := "[extract]\npage_limit = \"4\"\n\n[llm]\ntimeout = \"7.5\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, 4, store.GetInt("extract.page_limit"))
	assert.InDelta(t, 7.5, store.GetFloat("llm.timeout"), 1e-9)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.api_key", "sk-secret"))
	require.NoError(t, store.Set("llm.model", "qwen-plus"))
	require.NoError(t, store.Set("service.name", "ramener"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Regexp(t, `(?m)^\s*api_key = ['"]sk-secret['"]`, string(raw))
	assert.NotContains(t, string(raw), "'llm.model'")

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", reopened.GetString("llm.api_key"))
	assert.Equal(t, "qwen-plus", reopened.GetString("llm.model"))
	assert.Equal(t, "ramener", reopened.GetString("service.name"))
}

func TestConfigStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "qwen-plus"))

	require.NoError(t, store.Delete("llm.model"))
	require.NoError(t, store.Delete("never.set"))

	_, ok := store.Get("llm.model")
	assert.False(t, ok)

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok = reopened.Get("llm.model")
	assert.False(t, ok)
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[llm\nmodel="), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_LoadPicksUpExternalEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("[ocr]\nrasterizer = \"pdftoppm\"\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, "pdftoppm", store.GetString("ocr.rasterizer"))
}

func TestFlattenAndNest(t *testing.T) {
	nested := map[string]any{
		"llm":     map[string]any{"model": "m", "timeout": 3.0},
		"service": map[string]any{"name": "ramener"},
		"top":     "value",
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{
		"llm.model":    "m",
		"llm.timeout":  3.0,
		"service.name": "ramener",
		"top":          "value",
	}, flat)
	assert.Equal(t, nested, nestMap(flat))
}

func TestConfigStore_WriteIsPrivateAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}
