// Package messages defines Bubbletea message types for the chat UI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// LibraryLoaded carries the collection summary for the status bar.
type LibraryLoaded struct {
	Documents int
	Chunks    int
	Err       error
}

// RetrievalCompleted carries scored context for the in-flight question.
type RetrievalCompleted struct {
	Results []domain.RetrievalResult
	Err     error
}

// StreamStarted carries the opened answer stream for the in-flight
// question. Model and sources are known here; text follows as
// fragments.
type StreamStarted struct {
	Stream domain.AnswerStream
	Err    error
}

// FragmentReceived carries one answer text increment. Closed reports
// the stream ending instead of a fragment.
type FragmentReceived struct {
	Fragment string
	Closed   bool
}

// ErrorOccurred signals that an error happened outside a turn.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
