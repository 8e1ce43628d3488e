// Package services implements the driving port interfaces.
// Services hold the tutoring logic - ingestion, retrieval, prompt
// construction, generation - and orchestrate calls to driven ports
// (storage, embedding, LLM adapters).
//
// Services are pure Go; everything provider-specific lives behind a
// driven port.
package services
