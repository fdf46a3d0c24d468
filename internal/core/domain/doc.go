// Package domain defines the core entities of the ramener rename pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ExtractedText: text pulled from a PDF, tagged with the limits that produced it
//   - DocumentMetadata: the (date, source, title, confidence) tuple for one run
//   - TitleGuess: a heuristic title/source pair merged into DocumentMetadata
//   - FilenamePlan: the synthesised filename and its collision-free destination
//   - AppSettings: the fully resolved configuration handed to the pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
