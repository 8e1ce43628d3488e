package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompt templates from user-editable files on disk.
// Templates are read from a configurable directory with fallback to the
// embedded defaults below.
//
// Initialisation is lazy: the directory and default files are only created
// on first Load, not in the constructor, so building a store performs no I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains the embedded default templates. They seed new
// prompt files on first use and back any file a user has deleted.
//
// Placeholders are positional fmt verbs; the answer template takes
// (context, question), the quiz template (count, topic, notes), and the
// puzzle and question-bank templates (count, notes).
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `You are an expert tutor helping a student study from their own notes and documents.

RULES:
- Answer ONLY using the Context below.
- If the answer is not in the Context, respond EXACTLY: "I don't have that in my notes."
- Do not use your general knowledge, even if you know the answer.
- Cite which part of the context your answer came from.
- Use clear, well-structured formatting with bullet points when appropriate.

Context:
%s

Question: %s

Answer:`,

	driven.PromptQuiz: `You are an expert tutor creating a multiple-choice quiz from a student's notes.

Create exactly %d questions about "%s" using ONLY the notes below.

Respond with ONLY valid JSON in exactly this shape, with no markdown fences and no commentary:
{
  "questions": [
    {
      "id": 1,
      "question": "The question text",
      "options": {"A": "First option", "B": "Second option", "C": "Third option", "D": "Fourth option"},
      "correct": "A",
      "explanation": "Why this is the right answer, citing the notes"
    }
  ]
}

RULES:
- Base every question on the notes below. Do not use outside knowledge.
- Give each question exactly four options labelled A to D.
- Set "correct" to the letter of the right option.
- Number "id" from 1 upwards.
- Mix easier and harder questions.

Notes:
%s`,

	driven.PromptPuzzleFillBlank: `You are an expert tutor creating fill-in-the-blank puzzles from a student's notes.

Create exactly %d puzzles using ONLY the notes below. Each puzzle takes a sentence from the notes and replaces one key term with ___.

Respond with ONLY valid JSON in exactly this shape, with no markdown fences and no commentary:
{
  "puzzles": [
    {
      "sentence": "A sentence from the notes with the key term replaced by ___",
      "answer": "the missing term",
      "hint": "A short clue that does not give the answer away"
    }
  ]
}

RULES:
- Take sentences and terms from the notes below. Do not use outside knowledge.
- Blank exactly one term per sentence, marked with ___.
- Keep hints short and indirect.

Notes:
%s`,

	driven.PromptPuzzleWordScramble: `You are an expert tutor creating word-scramble puzzles from a student's notes.

Pick exactly %d key terms from the notes below for the student to unscramble.

Respond with ONLY valid JSON in exactly this shape, with no markdown fences and no commentary:
{
  "puzzles": [
    {
      "word": "keyterm",
      "hint": "A short clue describing the term"
    }
  ]
}

RULES:
- Pick terms that appear in the notes below. Do not use outside knowledge.
- Prefer single words between four and twelve letters.
- Keep hints short and indirect.

Notes:
%s`,

	driven.PromptQuestionsShortAnswer: `You are an expert tutor writing practice questions from a student's notes.

Create exactly %d short-answer questions using ONLY the notes below.

Respond with ONLY valid JSON in exactly this shape, with no markdown fences and no commentary:
{
  "questions": [
    {
      "question": "An open question about the notes",
      "answer": "A model answer drawn from the notes"
    }
  ]
}

RULES:
- Base every question and answer on the notes below. Do not use outside knowledge.
- Keep answers to a few sentences at most.

Notes:
%s`,

	driven.PromptQuestionsTrueFalse: `You are an expert tutor writing true-or-false questions from a student's notes.

Create exactly %d statements for the student to judge, using ONLY the notes below.

Respond with ONLY valid JSON in exactly this shape, with no markdown fences and no commentary:
{
  "questions": [
    {
      "statement": "A statement that is either true or false according to the notes",
      "answer": true,
      "explanation": "Why the statement is true or false, citing the notes"
    }
  ]
}

RULES:
- Base every statement on the notes below. Do not use outside knowledge.
- Mix true and false statements roughly evenly.
- Make "answer" a JSON boolean, not a string.

Notes:
%s`,

	driven.PromptQuestionsFlashcard: `You are an expert tutor making revision flashcards from a student's notes.

Create exactly %d flashcards using ONLY the notes below.

Respond with ONLY valid JSON in exactly this shape, with no markdown fences and no commentary:
{
  "cards": [
    {
      "front": "A term or question for the front of the card",
      "back": "The definition or answer for the back"
    }
  ]
}

RULES:
- Base every card on the notes below. Do not use outside knowledge.
- Keep both sides short enough to fit on a card.

Notes:
%s`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.tutora/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".tutora", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template for the given prompt name.
// The first call initialises the prompt directory and seeds default files.
// Results are cached; a file that cannot be read falls back to the
// embedded default. Unknown names are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// The embedded defaults still work when the directory does not.
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("initialising prompt store: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during file I/O.
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("loading prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load is not overwritten.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the template cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and seeds default files.
// Called once via sync.Once on first Load.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("creating prompt directory: %w", err)
		return
	}

	// Seed defaults without touching files the user already has.
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("seeding prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a template from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Tutora Prompts

This directory contains the prompt templates Tutora sends to its LLM.
Edit any file to change the wording; deleting a file restores the built-in
default. Changes take effect on the next command or after restarting chat.

## Files

- ` + "`answer.txt`" + ` - Grounded question answering over your notes
- ` + "`quiz.txt`" + ` - Multiple-choice quiz generation
- ` + "`puzzle_fill_blank.txt`" + ` - Fill-in-the-blank puzzles
- ` + "`puzzle_word_scramble.txt`" + ` - Word-scramble puzzles
- ` + "`questions_short_answer.txt`" + ` - Short-answer practice questions
- ` + "`questions_true_false.txt`" + ` - True-or-false statements
- ` + "`questions_flashcard.txt`" + ` - Revision flashcards

## Format Placeholders

Templates use Go fmt placeholders filled in this order:

- ` + "`answer.txt`" + `: %s (context), %s (question)
- ` + "`quiz.txt`" + `: %d (question count), %s (topic), %s (notes)
- all others: %d (item count), %s (notes)

Customised templates must keep the placeholders in the same order. The
generation templates also describe the exact JSON shape Tutora parses, so
keep those instructions intact.
`
	return os.WriteFile(path, []byte(content), 0600)
}
