package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/logger"
)

// Ensure Fitz implements the interface.
var _ driven.Rasterizer = (*Fitz)(nil)

// Fitz renders pages in-process with MuPDF.
type Fitz struct{}

// NewFitz creates the MuPDF rasterizer.
func NewFitz() *Fitz {
	return &Fitz{}
}

// Name identifies the rasterizer in logs.
func (f *Fitz) Name() string {
	return "mupdf"
}

// Rasterize renders the first pageLimit pages as PNG.
func (f *Fitz) Rasterize(ctx context.Context, path string, pageLimit int, dpi int) ([][]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	n := pagesToRender(doc.NumPage(), pageLimit)
	images := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		logger.Debug("Rendered page %d (%d bytes)", i+1, buf.Len())
		images = append(images, buf.Bytes())
	}
	return images, nil
}
