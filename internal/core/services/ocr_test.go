package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

func TestOCRFallback_Success(t *testing.T) {
	raster := &mockRasterizer{images: [][]byte{[]byte("p1"), []byte("p2")}}
	analyzer := &mockAnalyzer{transcription: "\n  Weekly report 2024-03-01  \n"}

	text, err := NewOCRFallback(raster, analyzer).Extract(context.Background(), "/x.pdf", 2)

	require.NoError(t, err)
	assert.Equal(t, "Weekly report 2024-03-01", text)
	assert.Equal(t, 2, raster.gotLimit)
	assert.Equal(t, OCRDPI, raster.gotDPI)
	assert.Len(t, analyzer.images, 2)
}

func TestOCRFallback_Failures(t *testing.T) {
	tests := []struct {
		name     string
		raster   *mockRasterizer
		analyzer *mockAnalyzer
		want     error
	}{
		{
			name:     "rasterizer unavailable",
			raster:   &mockRasterizer{err: fmt.Errorf("%w: pdftoppm not found", domain.ErrOcrUnavailable)},
			analyzer: &mockAnalyzer{},
			want:     domain.ErrOcrUnavailable,
		},
		{
			name:     "render error",
			raster:   &mockRasterizer{err: errBoom},
			analyzer: &mockAnalyzer{},
			want:     domain.ErrOcrFailed,
		},
		{
			name:     "no images",
			raster:   &mockRasterizer{},
			analyzer: &mockAnalyzer{},
			want:     domain.ErrOcrFailed,
		},
		{
			name:     "transcription error",
			raster:   &mockRasterizer{images: [][]byte{{1}}},
			analyzer: &mockAnalyzer{transcribeErr: domain.NewHTTPError(500, []byte("oops"))},
			want:     domain.ErrOcrFailed,
		},
		{
			name:     "blank transcription",
			raster:   &mockRasterizer{images: [][]byte{{1}}},
			analyzer: &mockAnalyzer{transcription: " \n\t"},
			want:     domain.ErrOcrFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOCRFallback(tt.raster, tt.analyzer).Extract(context.Background(), "/x.pdf", 3)

			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.ExitExtraction, domain.ExitCode(err))
		})
	}
}

func TestOCRFallback_NilRasterizer(t *testing.T) {
	_, err := NewOCRFallback(nil, &mockAnalyzer{}).Extract(context.Background(), "/x.pdf", 3)

	assert.ErrorIs(t, err, domain.ErrOcrUnavailable)
}

func TestLimitLabel(t *testing.T) {
	assert.Equal(t, "all", limitLabel(0))
	assert.Equal(t, "all", limitLabel(-1))
	assert.Equal(t, "3", limitLabel(3))
}
