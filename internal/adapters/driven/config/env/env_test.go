package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

func mapLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReader_Layer_AllVariables(t *testing.T) {
	r := NewReaderWith(mapLookup(map[string]string{
		VarAPIKey:       " sk-env ",
		VarBaseURL:      "https://llm.example/v1",
		VarModel:        "qwen-plus",
		VarOCRModel:     "qwen-vl",
		VarPageLimit:    "5",
		VarTimeout:      "12.5",
		VarMaxTextChars: "8000",
		VarLogPath:      "~/ramener.log",
		VarRasterizer:   "PDFTOPPM",
		VarHistory:      "false",
	}), "")

	layer, err := r.Layer(false)

	require.NoError(t, err)
	assert.Equal(t, "sk-env", *layer.APIKey)
	assert.Equal(t, "https://llm.example/v1", *layer.BaseURL)
	assert.Equal(t, "qwen-plus", *layer.Model)
	assert.Equal(t, "qwen-vl", *layer.OCRModel)
	assert.Equal(t, 5, *layer.PageLimit)
	assert.Equal(t, 12500*time.Millisecond, *layer.Timeout)
	assert.Equal(t, 8000, *layer.MaxTextChars)
	assert.Equal(t, "~/ramener.log", *layer.LogPath)
	assert.Equal(t, domain.RasterizerPdftoppm, *layer.Rasterizer)
	assert.False(t, *layer.HistoryEnabled)
	assert.Nil(t, layer.ServiceName)
}

func TestReader_Layer_BlankAndMalformedAreUnset(t *testing.T) {
	r := NewReaderWith(mapLookup(map[string]string{
		VarModel:      "   ",
		VarPageLimit:  "three",
		VarTimeout:    "soon",
		VarRasterizer: "ghostscript",
		VarHistory:    "maybe",
	}), "")

	layer, err := r.Layer(false)

	require.NoError(t, err)
	assert.Equal(t, domain.SettingsLayer{}, layer)
}

func TestReader_Layer_KeyFileOverride(t *testing.T) {
	dir := t.TempDir()
	keyFile := writeFile(t, dir, "key", "sk-from-file\n")

	layer, err := NewReaderWith(mapLookup(map[string]string{VarAPIKeyFile: keyFile}), "").Layer(false)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", *layer.APIKey)
}

func TestReader_Layer_KeyFileOverrideMustBeUsable(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty", "  \n")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "nope"), "not found"},
		{"empty", empty, "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReaderWith(mapLookup(map[string]string{VarAPIKeyFile: tt.path}), "").Layer(false)

			require.ErrorIs(t, err, ErrKeyFile)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReader_Layer_DefaultKeyFileIsOptional(t *testing.T) {
	dir := t.TempDir()

	layer, err := NewReaderWith(mapLookup(nil), filepath.Join(dir, "api_key")).Layer(false)
	require.NoError(t, err)
	assert.Nil(t, layer.APIKey)

	writeFile(t, dir, "api_key", "")
	layer, err = NewReaderWith(mapLookup(nil), filepath.Join(dir, "api_key")).Layer(false)
	require.NoError(t, err)
	assert.Nil(t, layer.APIKey)

	writeFile(t, dir, "api_key", "sk-default")
	layer, err = NewReaderWith(mapLookup(nil), filepath.Join(dir, "api_key")).Layer(false)
	require.NoError(t, err)
	assert.Equal(t, "sk-default", *layer.APIKey)
}

func TestReader_Layer_EnvKeyBeatsFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewReaderWith(mapLookup(map[string]string{
		VarAPIKey:     "sk-env",
		VarAPIKeyFile: filepath.Join(dir, "missing"),
	}), writeFile(t, dir, "api_key", "sk-default"))

	layer, err := r.Layer(false)

	require.NoError(t, err)
	assert.Equal(t, "sk-env", *layer.APIKey)
}

func TestReader_Layer_SkipKeyFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewReaderWith(mapLookup(map[string]string{VarAPIKeyFile: filepath.Join(dir, "missing")}), "")

	layer, err := r.Layer(true)

	require.NoError(t, err)
	assert.Nil(t, layer.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "RAMENER_MODEL=from-dotenv\nRAMENER_PAGE_LIMIT=7\n")
	t.Setenv(VarModel, "already-set")
	t.Setenv(VarPageLimit, "")
	require.NoError(t, os.Unsetenv(VarPageLimit))

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "already-set", os.Getenv(VarModel))
	assert.Equal(t, "7", os.Getenv(VarPageLimit))
	require.NoError(t, os.Unsetenv(VarPageLimit))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"))

	assert.ErrorContains(t, err, "load env file")
}
