package driven

import "context"

// LLMService provides text generation for grounded answering.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI-compatible inference servers
type LLMService interface {
	// Generate produces a complete text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Stream produces text fragments as the model emits them. Fragments
	// are sent on the returned channel, which is closed when the stream
	// ends; a non-nil error on the final receive is reported through
	// the errs channel (at most one error, sent before close).
	Stream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan string, <-chan error, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
