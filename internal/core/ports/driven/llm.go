package driven

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// LLMService is a chat-completion backend.
//
// Implementations may include:
//   - Groq (llama-3.1-8b-instant, OpenAI-compatible API)
//   - OpenAI (gpt-4o-mini, gpt-4o)
type LLMService interface {
	// Chat sends the assembled messages and returns the complete
	// answer text. Backend failures (network, auth, timeout, malformed
	// response) wrap domain.ErrGenerationBackend.
	Chat(ctx context.Context, messages []domain.Message, opts ChatOptions) (string, error)

	// ChatStream sends the assembled messages and streams the answer.
	// The returned error covers failures before any output exists
	// (request construction, connection, non-2xx status). Once
	// deltas flow, a backend failure arrives as the final delta's Err
	// and the channel closes; earlier deltas remain valid partial
	// output.
	ChatStream(ctx context.Context, messages []domain.Message, opts ChatOptions) (<-chan StreamDelta, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatOptions configures chat completion behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// StreamDelta is one increment of a streamed chat completion.
type StreamDelta struct {
	// Content is the answer text increment. May be empty on the
	// terminal delta.
	Content string

	// Err is non-nil only on the terminal delta, when the stream
	// failed after starting. No further deltas follow it.
	Err error
}
