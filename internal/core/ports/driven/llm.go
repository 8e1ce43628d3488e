package driven

import "context"

// GenerateOptions configures a single generation call.
type GenerateOptions struct {
	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling randomness. Zero means provider default.
	Temperature float32

	// StopWords stop generation when produced.
	StopWords []string
}

// LLMService generates text from a prompt.
type LLMService interface {
	// Generate produces a completion for the given prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the active model identifier.
	ModelName() string

	// Ping verifies the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
