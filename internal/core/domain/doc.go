// Package domain defines the core business entities for Tutora.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested note with metadata
//   - Chunk: An embeddable passage within a document
//   - RawDocument: Opaque bytes handed to normalisation
//   - Exclusion: A tombstone for a soft-deleted document
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
