package domain

// PuzzleKind selects the puzzle sub-variant.
type PuzzleKind string

// Available puzzle kinds.
const (
	// PuzzleFillBlank produces sentences with one blanked-out term.
	PuzzleFillBlank PuzzleKind = "fill_blank"

	// PuzzleWordScramble produces scrambled key terms with hints.
	PuzzleWordScramble PuzzleKind = "word_scramble"
)

// IsValid returns true if the puzzle kind is recognised.
func (k PuzzleKind) IsValid() bool {
	return k == PuzzleFillBlank || k == PuzzleWordScramble
}

// String returns the string representation.
func (k PuzzleKind) String() string {
	return string(k)
}

// QuestionKind selects the question-bank sub-variant.
type QuestionKind string

// Available question kinds.
const (
	// QuestionShortAnswer produces open questions with model answers.
	QuestionShortAnswer QuestionKind = "short_answer"

	// QuestionTrueFalse produces statements to judge, with explanations.
	QuestionTrueFalse QuestionKind = "true_false"

	// QuestionFlashcard produces front/back revision cards.
	QuestionFlashcard QuestionKind = "flashcard"
)

// IsValid returns true if the question kind is recognised.
func (k QuestionKind) IsValid() bool {
	switch k {
	case QuestionShortAnswer, QuestionTrueFalse, QuestionFlashcard:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k QuestionKind) String() string {
	return string(k)
}

// Per-task item budgets. Requests asking for zero or fewer items get the
// default; requests above the cap are clamped to it.
const (
	DefaultQuizQuestions = 5
	MaxQuizQuestions     = 10

	DefaultPuzzleCount = 8
	MaxPuzzleCount     = 12

	DefaultQuestionCount = 6
	MaxQuestionCount     = 10
)

// Retrieval queries used when a study-material request names no topic.
// Each task leans on a slightly different phrasing to pull a useful
// cross-section of the corpus.
const (
	QuizFallbackQuery      = "key concepts and important topics"
	PuzzleFallbackQuery    = "important concepts and key terms"
	QuestionsFallbackQuery = "key concepts and study material"
)

// QuizRequest parameterises quiz generation.
type QuizRequest struct {
	// Topic optionally narrows the quiz content. Empty means the
	// whole corpus, retrieved via QuizFallbackQuery.
	Topic string

	// Count is the requested number of questions.
	Count int
}

// Questions returns the effective question count after defaulting
// and clamping.
func (r QuizRequest) Questions() int {
	return clampCount(r.Count, DefaultQuizQuestions, MaxQuizQuestions)
}

// PuzzleRequest parameterises puzzle generation.
type PuzzleRequest struct {
	// Kind is the puzzle sub-variant. Invalid or empty defaults to
	// fill-in-the-blank.
	Kind PuzzleKind

	// Count is the requested number of puzzles.
	Count int
}

// Puzzles returns the effective puzzle count after defaulting and clamping.
func (r PuzzleRequest) Puzzles() int {
	return clampCount(r.Count, DefaultPuzzleCount, MaxPuzzleCount)
}

// EffectiveKind returns the requested kind, defaulting to fill-in-the-blank.
func (r PuzzleRequest) EffectiveKind() PuzzleKind {
	if r.Kind.IsValid() {
		return r.Kind
	}
	return PuzzleFillBlank
}

// QuestionBankRequest parameterises question-bank generation.
type QuestionBankRequest struct {
	// Kind is the question sub-variant. Invalid or empty defaults to
	// short-answer.
	Kind QuestionKind

	// Count is the requested number of items.
	Count int
}

// Items returns the effective item count after defaulting and clamping.
func (r QuestionBankRequest) Items() int {
	return clampCount(r.Count, DefaultQuestionCount, MaxQuestionCount)
}

// EffectiveKind returns the requested kind, defaulting to short-answer.
func (r QuestionBankRequest) EffectiveKind() QuestionKind {
	if r.Kind.IsValid() {
		return r.Kind
	}
	return QuestionShortAnswer
}

func clampCount(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
