// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Tutora. It lets AI assistants like Claude ask the user's notes
// questions and generate study material from them.
package mcp

import "errors"

// ErrMissingTutorService is returned when the tutor service is not provided.
var ErrMissingTutorService = errors.New("mcp: tutor service is required")
