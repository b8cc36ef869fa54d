package domain

import "time"

// ChatSession is an in-memory conversation. History is session-only:
// nothing here is ever persisted, and a new session always starts with
// an empty transcript.
type ChatSession struct {
	// ID identifies the session.
	ID string

	// StartedAt is when the session was opened.
	StartedAt time.Time

	// Turns is the completed exchanges, oldest first.
	Turns []ChatTurn
}

// NewChatSession starts an empty session.
func NewChatSession(id string) *ChatSession {
	return &ChatSession{ID: id, StartedAt: time.Now()}
}

// AddTurn appends a completed turn to the history.
func (s *ChatSession) AddTurn(turn ChatTurn) {
	s.Turns = append(s.Turns, turn)
}

// Len returns the number of completed turns.
func (s *ChatSession) Len() int {
	return len(s.Turns)
}

// ChatTurn is one question/answer exchange. Turns live only in
// session-level history; they are never persisted. On restart the
// document list is re-derived from the collection and history starts
// empty.
type ChatTurn struct {
	// ID identifies the turn within its session.
	ID string

	// Question is the user's question as asked.
	Question string

	// Answer is the full generated answer text.
	Answer string

	// Sources lists the context chunks behind the answer, in
	// retrieval order.
	Sources []Citation

	// Model is the backend model that answered.
	Model string

	// Elapsed is the wall time of the generation call.
	Elapsed time.Duration

	// LowConfidence is set when the retrieval backing this turn had a
	// mean similarity below LowConfidenceThreshold.
	LowConfidence bool

	// AskedAt is when the question was submitted.
	AskedAt time.Time
}
