// Package ocr renders PDF pages to PNG images for model transcription.
package ocr

import (
	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
)

// New returns the rasterizer for kind. Unknown kinds get the built-in MuPDF renderer.
func New(kind domain.RasterizerKind) driven.Rasterizer {
	if kind == domain.RasterizerPdftoppm {
		return NewPdftoppm("")
	}
	return NewFitz()
}

// pagesToRender caps total at limit; limit <= 0 means every page.
func pagesToRender(total, limit int) int {
	if limit > 0 && limit < total {
		return limit
	}
	return total
}
