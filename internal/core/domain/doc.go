// Package domain defines the core business entities for Grimoire.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded, positioned segment of a document's extracted text
//   - RetrievalResult: A stored chunk scored against a question
//   - Answer / AnswerStream: Generated answers with source attributions
//   - ChatTurn: One question/answer exchange in a session
//   - Settings: Validated application configuration
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
