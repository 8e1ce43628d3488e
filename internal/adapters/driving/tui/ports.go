// Package tui provides the interactive chat interface for tutora.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tutor answers questions and generates study material.
	Tutor driving.TutorService

	// Documents lists the owner's ingested notes. Optional: the
	// documents pane shows a hint when absent.
	Documents driving.DocumentService

	// Settings exposes the configured providers for display. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(tutor driving.TutorService, documents driving.DocumentService) *Ports {
	return &Ports{
		Tutor:     tutor,
		Documents: documents,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tutor == nil {
		return ErrMissingTutorService
	}
	// Documents and Settings are optional.
	return nil
}
