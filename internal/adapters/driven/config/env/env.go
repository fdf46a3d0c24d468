// Package env reads the RAMENER_* environment variables into a settings layer.
package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/logger"
)

// Recognised variables.
const (
	VarAPIKey       = "RAMENER_API_KEY"
	VarAPIKeyFile   = "RAMENER_API_KEY_FILE"
	VarBaseURL      = "RAMENER_BASE_URL"
	VarModel        = "RAMENER_MODEL"
	VarOCRModel     = "RAMENER_OCR_MODEL"
	VarPageLimit    = "RAMENER_PAGE_LIMIT"
	VarTimeout      = "RAMENER_TIMEOUT"
	VarMaxTextChars = "RAMENER_MAX_TEXT_CHARS"
	VarLogPath      = "RAMENER_LOG_PATH"
	VarRasterizer   = "RAMENER_RASTERIZER"
	VarHistory      = "RAMENER_HISTORY"
)

// ErrKeyFile reports an unusable RAMENER_API_KEY_FILE.
var ErrKeyFile = errors.New("api key file")

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Reader builds a domain.SettingsLayer from environment variables.
type Reader struct {
	lookup         LookupFunc
	defaultKeyFile string
}

// NewReader reads the process environment, with ~/.config/ramener/api_key
// as the optional key file.
func NewReader() *Reader {
	keyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		keyFile = filepath.Join(home, ".config", "ramener", "api_key")
	}
	return NewReaderWith(os.LookupEnv, keyFile)
}

// NewReaderWith is NewReader with an explicit lookup and default key file.
func NewReaderWith(lookup LookupFunc, defaultKeyFile string) *Reader {
	return &Reader{lookup: lookup, defaultKeyFile: defaultKeyFile}
}

// LoadDotEnv loads a .env style file into the process environment.
// Variables that are already set keep their values.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Layer returns the environment layer. When skipKeyFiles is false and
// RAMENER_API_KEY is unset, the key is read from RAMENER_API_KEY_FILE
// (which must exist and be non-empty) or the default key file.
// Malformed numbers are logged and left unset.
func (r *Reader) Layer(skipKeyFiles bool) (domain.SettingsLayer, error) {
	var layer domain.SettingsLayer

	layer.APIKey = r.str(VarAPIKey)
	if layer.APIKey == nil && !skipKeyFiles {
		key, err := r.keyFromFiles()
		if err != nil {
			return layer, err
		}
		layer.APIKey = key
	}

	layer.BaseURL = r.str(VarBaseURL)
	layer.Model = r.str(VarModel)
	layer.OCRModel = r.str(VarOCRModel)
	layer.LogPath = r.str(VarLogPath)
	layer.PageLimit = r.integer(VarPageLimit)
	layer.MaxTextChars = r.integer(VarMaxTextChars)

	if v := r.str(VarTimeout); v != nil {
		secs, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			logger.Warn("Ignoring %s=%q: not a number of seconds", VarTimeout, *v)
		} else {
			d := time.Duration(secs * float64(time.Second))
			layer.Timeout = &d
		}
	}

	if v := r.str(VarRasterizer); v != nil {
		kind := domain.RasterizerKind(strings.ToLower(*v))
		if kind.IsValid() {
			layer.Rasterizer = &kind
		} else {
			logger.Warn("Ignoring %s=%q: expected %s or %s", VarRasterizer, *v,
				domain.RasterizerFitz, domain.RasterizerPdftoppm)
		}
	}

	if v := r.str(VarHistory); v != nil {
		enabled, err := strconv.ParseBool(*v)
		if err != nil {
			logger.Warn("Ignoring %s=%q: not a boolean", VarHistory, *v)
		} else {
			layer.HistoryEnabled = &enabled
		}
	}

	return layer, nil
}

// str returns the trimmed value, or nil when unset or blank.
func (r *Reader) str(key string) *string {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (r *Reader) integer(key string) *int {
	v := r.str(key)
	if v == nil {
		return nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		logger.Warn("Ignoring %s=%q: not an integer", key, *v)
		return nil
	}
	return &n
}

func (r *Reader) keyFromFiles() (*string, error) {
	if override := r.str(VarAPIKeyFile); override != nil {
		key, err := readKeyFile(expandHome(*override))
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, fmt.Errorf("%w %s is empty", ErrKeyFile, *override)
		}
		return &key, nil
	}

	if r.defaultKeyFile == "" {
		return nil, nil
	}
	key, err := readKeyFile(r.defaultKeyFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if key == "" {
		return nil, nil
	}
	return &key, nil
}

func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w not found: %s: %w", ErrKeyFile, path, err)
		}
		return "", fmt.Errorf("%w: read %s: %w", ErrKeyFile, path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
