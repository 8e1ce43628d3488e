package mcp

import (
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Tutor answers questions and generates study material.
	Tutor driving.TutorService

	// Documents lists and reads the owner's library. Optional; without
	// it the document tool and resources report nothing.
	Documents driving.DocumentService

	// Owner is the library all tools operate on. MCP clients have no
	// notion of our owners, so the server is pinned to one at startup.
	Owner string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tutor == nil {
		return ErrMissingTutorService
	}
	// Documents is optional
	return nil
}

// owner returns the pinned owner, defaulting when unset.
func (p *Ports) owner() string {
	if p.Owner == "" {
		return "default"
	}
	return p.Owner
}
