package driven

import "github.com/custodia-labs/tutora-cli/internal/core/domain"

// AIConfigValidator checks AI provider settings before they are saved.
// Implementations test connectivity against the live service rather
// than just inspecting the fields.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by the
	// settings. Returns nil when the settings are valid or empty.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider described by the settings.
	// Returns nil when the settings are valid or empty.
	ValidateLLM(settings *domain.LLMSettings) error
}
