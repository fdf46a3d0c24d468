package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures. Stages wrap them with context
// using fmt.Errorf("%w: ...").
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPath indicates the input path is missing, not a file, or not a PDF.
	ErrInvalidPath = errors.New("invalid input path")

	// ErrExtractionFailed indicates the PDF text layer could not be read or was empty.
	// It triggers the OCR fallback.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrOcrUnavailable indicates no rasterisation capability is installed.
	ErrOcrUnavailable = errors.New("ocr unavailable")

	// ErrOcrFailed indicates rasterisation or transcription failed.
	ErrOcrFailed = errors.New("ocr failed")

	// ErrRequestFailed indicates a transport error, timeout or non-2xx reply.
	ErrRequestFailed = errors.New("metadata request failed")

	// ErrResponseInvalid indicates the model reply could not be parsed.
	ErrResponseInvalid = errors.New("metadata response invalid")

	// ErrFilenameBuild indicates a filename could not be synthesised.
	ErrFilenameBuild = errors.New("filename build failed")

	// ErrFileOperation indicates the copy or trash step failed.
	ErrFileOperation = errors.New("file operation failed")

	// ErrMissingAPIKey indicates no API key could be resolved.
	ErrMissingAPIKey = errors.New("API key not provided")
)

// HTTPError is a non-2xx reply from the model endpoint.
type HTTPError struct {
	Status int
	Body   string
}

// maxErrorBody is how much of a failed reply body is kept.
const maxErrorBody = 400

// NewHTTPError truncates body to the first 400 bytes.
func NewHTTPError(status int, body []byte) *HTTPError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &HTTPError{Status: status, Body: string(body)}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// Unwrap makes errors.Is(err, ErrRequestFailed) hold.
func (e *HTTPError) Unwrap() error {
	return ErrRequestFailed
}

// Process exit codes.
const (
	ExitOK          = 0
	ExitGeneric     = 1
	ExitInvalidPath = 2
	ExitExtraction  = 3
	ExitMetadata    = 4
	ExitFilename    = 5
	ExitFileOps     = 6
)

// ExitCode maps a pipeline error to its process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidPath):
		return ExitInvalidPath
	case errors.Is(err, ErrExtractionFailed), errors.Is(err, ErrOcrUnavailable), errors.Is(err, ErrOcrFailed):
		return ExitExtraction
	case errors.Is(err, ErrRequestFailed), errors.Is(err, ErrResponseInvalid):
		return ExitMetadata
	case errors.Is(err, ErrFilenameBuild):
		return ExitFilename
	case errors.Is(err, ErrFileOperation):
		return ExitFileOps
	default:
		return ExitGeneric
	}
}
