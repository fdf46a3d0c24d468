package pdftext

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// ledongthucSource wraps a ledongthuc/pdf reader. The library panics on some
// malformed files, so every call is guarded.
type ledongthucSource struct {
	file *os.File
	r    *pdf.Reader
}

func openLedongthuc(path string) (src pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panicked: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &ledongthucSource{file: f, r: r}, nil
}

func (s *ledongthucSource) NumPage() int {
	return s.r.NumPage()
}

func (s *ledongthucSource) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panicked on page %d: %v", n, r)
		}
	}()

	page := s.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (s *ledongthucSource) Close() error {
	return s.file.Close()
}
