// Package chat provides the tutor conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

// Role identifies who wrote a transcript entry.
type Role int

const (
	// RoleUser marks a question from the user.
	RoleUser Role = iota
	// RoleTutor marks an answer from the tutor.
	RoleTutor
)

// Entry is a single message in the transcript.
type Entry struct {
	Role    Role
	Content string

	// Sources are the deduplicated filenames an answer was grounded
	// on. Empty for questions and refusals.
	Sources []string
}

// View is the chat view with transcript, prompt input, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	prompt    *input.PromptInput
	statusbar *status.Bar
	viewport  viewport.Model
	spinner   spinner.Model

	tutorService driving.TutorService
	ownerID      string
	ctx          context.Context

	transcript []Entry
	thinking   bool
	notice     string
	width      int
	height     int
	ready      bool
	err        error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	tutorService driving.TutorService,
	ownerID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	vp := viewport.New(80, 14)

	v := &View{
		styles:       s,
		keymap:       km,
		prompt:       input.NewPromptInput(s),
		statusbar:    status.NewBar(s, km),
		viewport:     vp,
		spinner:      sp,
		tutorService: tutorService,
		ownerID:      ownerID,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
	v.statusbar.SetOwner(ownerID)
	v.refreshTranscript()

	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	// Scroll keys go to the transcript viewport.
	if keymap.Matches(keyStr, v.keymap.Up) || keymap.Matches(keyStr, v.keymap.Down) ||
		keymap.Matches(keyStr, v.keymap.PageUp) || keymap.Matches(keyStr, v.keymap.PageDown) {
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	if keymap.Matches(keyStr, v.keymap.Send) {
		return v.submitQuestion()
	}

	// Esc clears a typed question, or signals quit on an empty prompt.
	if msg.Type == tea.KeyEsc {
		if v.prompt.Value() != "" {
			v.prompt.SetValue("")
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// submitQuestion sends the typed question to the tutor.
func (v *View) submitQuestion() (*View, tea.Cmd) {
	if v.thinking {
		return v, nil
	}

	question := strings.TrimSpace(v.prompt.Value())
	if question == "" {
		return v, nil
	}

	v.transcript = append(v.transcript, Entry{Role: RoleUser, Content: question})
	v.prompt.Reset()
	v.thinking = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	v.refreshTranscript()

	return v, tea.Batch(v.performAsk(question), v.spinner.Tick)
}

// performAsk asks the tutor and returns the answer as a message.
func (v *View) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if v.tutorService == nil {
			return messages.AnswerReceived{Err: ErrNoTutorService}
		}

		result, err := v.tutorService.Ask(v.ctx, question, v.ownerID)
		if err != nil {
			return messages.AnswerReceived{Err: err}
		}
		return messages.AnswerReceived{Answer: result.Answer, Sources: result.Sources}
	}
}

// handleAnswer processes the tutor's answer.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.transcript = append(v.transcript, Entry{
		Role:    RoleTutor,
		Content: msg.Answer,
		Sources: dedupSources(msg.Sources),
	})
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.refreshTranscript()
}

// dedupSources collects unique source filenames, preserving order.
func dedupSources(sources []domain.RetrievedChunk) []string {
	if len(sources) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(sources))
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		if seen[src.Chunk.Filename] {
			continue
		}
		seen[src.Chunk.Filename] = true
		names = append(names, src.Chunk.Filename)
	}
	return names
}

// refreshTranscript rebuilds the viewport content from the transcript.
func (v *View) refreshTranscript() {
	maxWidth := v.width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	if len(v.transcript) == 0 {
		v.viewport.SetContent(v.styles.Muted.Render(
			"Ask a question about your notes to get started."))
		return
	}

	var b strings.Builder
	for i, entry := range v.transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.renderEntry(entry, maxWidth))
		b.WriteString("\n")
	}

	v.viewport.SetContent(b.String())
	v.viewport.GotoBottom()
}

// renderEntry renders a single transcript entry.
func (v *View) renderEntry(entry Entry, maxWidth int) string {
	var b strings.Builder

	switch entry.Role {
	case RoleUser:
		b.WriteString(v.styles.UserLabel.Render("You"))
	case RoleTutor:
		b.WriteString(v.styles.TutorLabel.Render("Tutor"))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(wrapText(entry.Content, maxWidth)))

	if len(entry.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Sources.Render(
			wrapText("Sources: "+strings.Join(entry.Sources, ", "), maxWidth)))
	}

	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := v.styles.Title.Render("Tutora")
	sections = append(sections, header, "")

	if v.notice != "" {
		sections = append(sections, v.styles.Warning.Render(v.notice))
	}

	sections = append(sections, v.viewport.View())

	if v.thinking {
		sections = append(sections, v.spinner.View()+v.styles.Muted.Render(" Thinking..."))
	} else if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, v.prompt.View())
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Header, spinner line, input, and status bar share the column.
	reserved := 9
	if v.notice != "" {
		reserved++
	}
	v.viewport.Width = width
	transcriptHeight := height - reserved
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.viewport.Height = transcriptHeight

	v.refreshTranscript()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Transcript returns the conversation so far.
func (v *View) Transcript() []Entry {
	return v.transcript
}

// Thinking returns whether an answer is being generated.
func (v *View) Thinking() bool {
	return v.thinking
}

// SetNotice sets a persistent warning line shown above the transcript.
func (v *View) SetNotice(notice string) {
	v.notice = notice
}

// Notice returns the current notice.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the conversation.
func (v *View) Reset() {
	v.transcript = nil
	v.thinking = false
	v.err = nil
	v.prompt.SetValue("")
	v.prompt.Focus()
	v.statusbar.Clear()
	v.refreshTranscript()
}

// wrapText wraps text to fit within maxWidth, preserving existing
// line breaks.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		if len(line) <= maxWidth {
			result.WriteString(line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			switch {
			case currentLine == "":
				currentLine = word
			case len(currentLine)+1+len(word) <= maxWidth:
				currentLine += " " + word
			default:
				result.WriteString(currentLine + "\n")
				currentLine = word
			}
		}
		if currentLine != "" {
			result.WriteString(currentLine)
		}
	}

	return result.String()
}
