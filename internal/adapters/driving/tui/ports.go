// Package tui provides the interactive chat interface for grimoire.
// It implements a driving adapter following hexagonal architecture
// principles.
package tui

import (
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the chat UI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer retrieves context and generates answers.
	Answer driving.AnswerService

	// Library reports the document collection for the status bar.
	Library driving.LibraryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(answer driving.AnswerService, library driving.LibraryService) *Ports {
	return &Ports{
		Answer:  answer,
		Library: library,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
