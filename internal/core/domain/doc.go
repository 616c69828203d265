// Package domain defines the core business entities for brdify.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - BrdDocument: A Business Requirements Document and its entity lists
//   - RtmEntry: One row of the Requirements Traceability Matrix
//   - SourceData: The uploaded text a document was extracted from
//   - SourceChunk: A bounded slice of the normalised source text
//   - ExtractionResult: The decoded output of one extraction call
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
