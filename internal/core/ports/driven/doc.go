// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Extracts text sections from raw note files
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - DocumentStore: Document and chunk persistence
//   - ExclusionStore: Soft-delete tombstone persistence
//   - VectorStore: Embedding persistence and similarity search
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt template storage
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, ingestion
//     records documents but cannot index them for retrieval.
//   - LLMService: Language model generation. Without it, the tutor and
//     study-material features are disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
