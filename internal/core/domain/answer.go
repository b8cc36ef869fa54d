package domain

import "time"

// Role identifies the author of a prompt message.
type Role string

// Message roles understood by chat-completion backends.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in an assembled prompt.
type Message struct {
	// Role is the message author.
	Role Role

	// Content is the message text.
	Content string
}

// Citation attributes part of an answer to a stored chunk.
type Citation struct {
	// Source is the originating file name.
	Source string

	// ChunkIndex is the cited chunk's position in its document.
	ChunkIndex int
}

// Answer is a completed batch generation.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the context chunks the model was given, in
	// retrieval order (highest similarity first).
	Sources []Citation

	// Model is the backend model that produced the answer.
	Model string

	// Elapsed is the wall time of the generation call.
	Elapsed time.Duration
}

// AnswerStream is an in-flight streaming generation. Metadata that is
// known before generation starts (sources, model) is carried up front;
// only the answer text itself arrives lazily.
type AnswerStream struct {
	// Sources lists the context chunks, in retrieval order.
	Sources []Citation

	// Model is the backend model producing the answer.
	Model string

	// Fragments yields answer text increments in order. Concatenated
	// in yield order they form the full answer; the consumer
	// accumulates. The channel is closed when generation finishes.
	// If the backend fails mid-stream, the final fragment is a visible
	// error marker rather than a dropped answer.
	Fragments <-chan string
}

// CitationsFor derives the attribution list from retrieved context,
// preserving retrieval order.
func CitationsFor(results []RetrievalResult) []Citation {
	if len(results) == 0 {
		return nil
	}
	citations := make([]Citation, len(results))
	for i, r := range results {
		citations[i] = Citation{Source: r.Source, ChunkIndex: r.ChunkIndex}
	}
	return citations
}
