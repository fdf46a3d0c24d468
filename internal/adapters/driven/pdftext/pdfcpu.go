package pdftext

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpuSource reads page content streams through pdfcpu and decodes the
// string operands of the text-showing operators.
type pdfcpuSource struct {
	ctx *model.Context
}

func openPdfcpu(path string) (src pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panicked: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return &pdfcpuSource{ctx: ctx}, nil
}

func (s *pdfcpuSource) NumPage() int {
	return s.ctx.PageCount
}

func (s *pdfcpuSource) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panicked on page %d: %v", n, r)
		}
	}()

	r, err := pdfcpu.ExtractPageContent(s.ctx, n)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return decodeContentStream(data), nil
}

// Close is a no-op; the context is fully in memory once read.
func (s *pdfcpuSource) Close() error {
	return nil
}
