// Package mcp provides an MCP (Model Context Protocol) server adapter for
// grimoire. It lets MCP-compatible AI assistants ask grounded questions
// against the local collection, list loaded documents, and ingest new ones.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrMissingLibraryService is returned when the library service is not provided.
var ErrMissingLibraryService = errors.New("mcp: library service is required")
