package driven

// Prompt names used with PromptStore.
const (
	// PromptGroundedAnswer is the instruction template for grounded
	// question answering. It takes two format arguments: the labelled
	// context blocks and the question.
	PromptGroundedAnswer = "grounded_answer"
)

// PromptStore provides prompt templates for the completion provider.
// Implementations may load user-customised templates from disk with
// embedded defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
