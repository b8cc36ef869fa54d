package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may embed defaults in the binary and allow per-user
// overrides from files on disk.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswerSystem is the fixed instruction block for grounded
	// answering: context-only answers, the literal refusal phrase, and
	// inline citations. No format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser wraps retrieved context and the question.
	// The template expects %s (context blocks) and %s (question).
	PromptAnswerUser = "answer_user"
)
