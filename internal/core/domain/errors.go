package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSettings indicates the configuration failed validation.
	// This is fatal at startup: no request may be served until fixed.
	ErrInvalidSettings = errors.New("invalid settings")

	// Ingestion Errors.

	// ErrUnsupportedFormat indicates a file extension no extractor handles.
	// Reported per file; a multi-file batch continues past it.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoExtractableText indicates extraction produced empty or
	// whitespace-only text (e.g. a scanned PDF with no text layer).
	ErrNoExtractableText = errors.New("no extractable text")

	// Retrieval Errors.

	// ErrNoDocumentsLoaded indicates retrieval was attempted against an
	// empty collection. Recoverable: the caller should ingest documents
	// first. Raised before any embedding work is done.
	ErrNoDocumentsLoaded = errors.New("no documents loaded")

	// Backend Errors.

	// ErrEmbeddingBackend indicates the embedding backend is unreachable
	// or rejected the input. The underlying cause is attached; no retry
	// happens at the pipeline layer.
	ErrEmbeddingBackend = errors.New("embedding backend failure")

	// ErrGenerationBackend indicates the language-model backend failed
	// (network, auth, timeout, malformed response). Timeouts surface as
	// this same kind: callers cannot distinguish slow from broken here.
	ErrGenerationBackend = errors.New("generation backend failure")

	// Provider Errors.

	// ErrUnsupportedProvider indicates an unknown provider selector.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)
