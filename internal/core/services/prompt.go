package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
)

// uploadedAtLayout renders the upload timestamp inside context labels.
const uploadedAtLayout = "2006-01-02 15:04:05 UTC"

// contextSeparator sits between passages in the grounded-answer context
// so the model can tell where one source ends and the next begins.
const contextSeparator = "\n\n---\n\n"

// PromptBuilder assembles the final prompt strings sent to the LLM.
// Templates come from the prompt store, so a user can reword any of
// them on disk without rebuilding; the builder only fills the slots.
//
// Building is pure string work. Nothing here touches the model.
type PromptBuilder struct {
	mu      sync.RWMutex
	prompts driven.PromptStore
}

// Interface guard.
var _ driven.PromptStoreAware = (*PromptBuilder)(nil)

// NewPromptBuilder creates a prompt builder backed by the given store.
// The store may be nil; building then fails with ErrNotImplemented
// until SetPromptStore provides one.
func NewPromptBuilder(prompts driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{prompts: prompts}
}

// SetPromptStore swaps the template source at runtime.
func (b *PromptBuilder) SetPromptStore(store driven.PromptStore) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prompts = store
}

// BuildAnswer fills the grounded-answer template with the retrieved
// context and the user's question. Each passage is labelled with its
// source file and upload time so the model can cite where an answer
// came from.
func (b *PromptBuilder) BuildAnswer(question string, chunks []domain.RetrievedChunk) (string, error) {
	template, err := b.load(driven.PromptAnswer)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(template, formatContext(chunks), question), nil
}

// BuildQuiz fills the quiz template with the question count, the topic
// and the retrieved notes. An empty topic becomes a whole-corpus
// phrasing so the template still reads naturally.
func (b *PromptBuilder) BuildQuiz(topic string, count int, chunks []domain.RetrievedChunk) (string, error) {
	template, err := b.load(driven.PromptQuiz)
	if err != nil {
		return "", err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "the key concepts in these notes"
	}
	return fmt.Sprintf(template, count, topic, joinNotes(chunks)), nil
}

// BuildPuzzle fills the template for the requested puzzle kind with the
// puzzle count and the retrieved notes.
func (b *PromptBuilder) BuildPuzzle(kind domain.PuzzleKind, count int, chunks []domain.RetrievedChunk) (string, error) {
	name := driven.PromptPuzzleFillBlank
	if kind == domain.PuzzleWordScramble {
		name = driven.PromptPuzzleWordScramble
	}

	template, err := b.load(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(template, count, joinNotes(chunks)), nil
}

// BuildQuestions fills the template for the requested question kind
// with the item count and the retrieved notes.
func (b *PromptBuilder) BuildQuestions(kind domain.QuestionKind, count int, chunks []domain.RetrievedChunk) (string, error) {
	var name string
	switch kind {
	case domain.QuestionTrueFalse:
		name = driven.PromptQuestionsTrueFalse
	case domain.QuestionFlashcard:
		name = driven.PromptQuestionsFlashcard
	default:
		name = driven.PromptQuestionsShortAnswer
	}

	template, err := b.load(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(template, count, joinNotes(chunks)), nil
}

func (b *PromptBuilder) load(name string) (string, error) {
	b.mu.RLock()
	store := b.prompts
	b.mu.RUnlock()

	if store == nil {
		return "", fmt.Errorf("prompt store not configured: %w", domain.ErrNotImplemented)
	}

	template, err := store.Load(name)
	if err != nil {
		return "", fmt.Errorf("loading prompt %q: %w", name, err)
	}
	return template, nil
}

// formatContext renders retrieval hits as labelled passages. The label
// names the source file and its upload time, and passages are separated
// so the model does not run them together.
func formatContext(chunks []domain.RetrievedChunk) string {
	blocks := make([]string, 0, len(chunks))
	for _, rc := range chunks {
		label := fmt.Sprintf("[%s (Uploaded: %s)]",
			rc.Chunk.Filename, rc.Chunk.UploadedAt.UTC().Format(uploadedAtLayout))
		blocks = append(blocks, label+"\n"+rc.Chunk.Content)
	}
	return strings.Join(blocks, contextSeparator)
}

// joinNotes renders retrieval hits as plain study notes. The generation
// tasks treat the corpus as one body of text, so no source labels.
func joinNotes(chunks []domain.RetrievedChunk) string {
	notes := make([]string, 0, len(chunks))
	for _, rc := range chunks {
		notes = append(notes, rc.Chunk.Content)
	}
	return strings.Join(notes, "\n\n")
}
