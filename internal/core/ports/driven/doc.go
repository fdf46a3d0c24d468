// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextExtractor: Reads the PDF text layer
//   - MetadataAnalyzer: Remote chat-completions model (analysis and transcription)
//   - FileOps: Copy and trash on the local filesystem
//   - ConfigStore: Persisted user settings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Rasterizer: Renders pages for OCR. Without it the OCR fallback reports ErrOcrUnavailable.
//   - RenameLedger: Rename history. Without it nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
