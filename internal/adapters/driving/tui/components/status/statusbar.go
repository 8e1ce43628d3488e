// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateThinking  State = "thinking"
	StateError     State = "error"
	StateDocuments State = "documents"
)

// Bar displays the owner, application state, and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	owner   string
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := b.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the owner and state.
func (b *Bar) renderLeft() string {
	prefix := ""
	if b.owner != "" {
		prefix = b.styles.Normal.Render(b.owner) + b.styles.Muted.Render(" | ")
	}

	switch b.state {
	case StateThinking:
		return prefix + b.styles.Muted.Render("Thinking...")
	case StateError:
		if b.message != "" {
			return prefix + b.styles.Error.Render(fmt.Sprintf("Error: %s", b.message))
		}
		return prefix + b.styles.Error.Render("Error")
	case StateDocuments:
		if b.message != "" {
			return prefix + b.styles.Normal.Render(b.message)
		}
		return prefix + b.styles.Normal.Render("Documents")
	case StateReady:
		if b.message != "" {
			return prefix + b.styles.Normal.Render(b.message)
		}
		return prefix + b.styles.Muted.Render("Ready")
	}
	return prefix + b.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints for the active view.
func (b *Bar) renderRight() string {
	var bindings []key.Binding
	if b.state == StateDocuments {
		bindings = b.keymap.DocumentsHelp()
	} else {
		bindings = b.keymap.ChatHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, bind := range bindings {
		h := bind.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetOwner sets the displayed owner.
func (b *Bar) SetOwner(owner string) {
	b.owner = owner
}

// Owner returns the displayed owner.
func (b *Bar) Owner() string {
	return b.owner
}

// SetMessage sets a custom message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear resets the status bar to default state.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
}
