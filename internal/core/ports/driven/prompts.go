package driven

// Well-known prompt names. Adapters that render prompts look these up
// by name so operators can override the wording on disk without a
// rebuild.
const (
	// PromptAnswer is the grounded question-answering template.
	PromptAnswer = "answer"

	// PromptQuiz is the multiple-choice quiz generation template.
	PromptQuiz = "quiz"

	// PromptPuzzleFillBlank is the fill-in-the-blank puzzle template.
	PromptPuzzleFillBlank = "puzzle_fill_blank"

	// PromptPuzzleWordScramble is the word-scramble puzzle template.
	PromptPuzzleWordScramble = "puzzle_word_scramble"

	// PromptQuestionsShortAnswer is the short-answer question bank template.
	PromptQuestionsShortAnswer = "questions_short_answer"

	// PromptQuestionsTrueFalse is the true/false question bank template.
	PromptQuestionsTrueFalse = "questions_true_false"

	// PromptQuestionsFlashcard is the flashcard question bank template.
	PromptQuestionsFlashcard = "questions_flashcard"
)

// PromptStore loads prompt templates by name.
type PromptStore interface {
	// Load returns the template text for a prompt name.
	// Unknown names are an error; known names always resolve, falling
	// back to an embedded default when no custom template exists.
	Load(name string) (string, error)

	// Reload discards any cached templates, forcing fresh loads on
	// next access.
	Reload()
}

// PromptStoreAware is implemented by services that can accept a prompt
// store after construction.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
