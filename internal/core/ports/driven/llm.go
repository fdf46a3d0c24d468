package driven

import (
	"context"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

// MetadataAnalyzer talks to an OpenAI-compatible chat-completions endpoint.
// Calls are single-shot: no retries, bounded by the configured timeout.
type MetadataAnalyzer interface {
	// Analyze asks the model for date, source, title and confidence of an excerpt.
	// Fails with domain.ErrRequestFailed or domain.ErrResponseInvalid.
	Analyze(ctx context.Context, excerpt string) (*domain.DocumentMetadata, error)

	// Transcribe sends PNG page images in one request and returns the raw reply text.
	Transcribe(ctx context.Context, images [][]byte) (string, error)

	// ModelName returns the metadata model.
	ModelName() string
}
