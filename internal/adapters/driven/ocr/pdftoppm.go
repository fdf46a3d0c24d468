package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
)

// Ensure Pdftoppm implements the interface.
var _ driven.Rasterizer = (*Pdftoppm)(nil)

// Pdftoppm renders pages with poppler's pdftoppm binary.
type Pdftoppm struct {
	binary   string
	runner   Runner
	lookPath func(string) (string, error)
}

// NewPdftoppm creates the rasterizer. An empty binary means "pdftoppm" on PATH.
func NewPdftoppm(binary string) *Pdftoppm {
	if binary == "" {
		binary = "pdftoppm"
	}
	return &Pdftoppm{binary: binary, runner: execRunner{}, lookPath: exec.LookPath}
}

// Name identifies the rasterizer in logs.
func (p *Pdftoppm) Name() string {
	return "pdftoppm"
}

// Rasterize runs pdftoppm into a temporary directory and reads the pages back.
// A missing binary is domain.ErrOcrUnavailable.
func (p *Pdftoppm) Rasterize(ctx context.Context, path string, pageLimit int, dpi int) ([][]byte, error) {
	bin, err := p.lookPath(p.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found; install poppler or use the built-in renderer: %w",
			domain.ErrOcrUnavailable, p.binary, err)
	}

	tmpDir, err := os.MkdirTemp("", "ramener-ocr-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(dpi), "-png"}
	if pageLimit > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(pageLimit))
	}
	args = append(args, path, prefix)

	if _, errb, err := p.runner.Run(ctx, bin, args...); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	// pdftoppm names pages prefix-1.png, or prefix-01.png for longer documents.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(prefix, matches[i]) < pageNumber(prefix, matches[j])
	})
	if pageLimit > 0 && len(matches) > pageLimit {
		matches = matches[:pageLimit]
	}

	images := make([][]byte, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, err
		}
		images = append(images, data)
	}
	return images, nil
}

func pageNumber(prefix, name string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix+"-"), ".png"))
	if err != nil {
		return 0
	}
	return n
}
