package mcp

import (
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions against the collection.
	Answer driving.AnswerService

	// Ingest loads documents into the collection. Optional: the ingest
	// tool is only registered when it is present.
	Ingest driving.IngestService

	// Library reports the document collection.
	Library driving.LibraryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
