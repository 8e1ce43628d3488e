package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// Study-material flags.
var (
	quizTopic     string
	quizCount     int
	puzzleType    string
	puzzleCount   int
	questionType  string
	questionCount int
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate a multiple-choice quiz from your notes",
	Long: `Generates a multiple-choice quiz as JSON, grounded in your notes.

By default the quiz spans the whole library; use --topic to narrow it.`,
	RunE: runQuiz,
}

var puzzleCmd = &cobra.Command{
	Use:   "puzzle",
	Short: "Generate word puzzles from your notes",
	Long: `Generates word puzzles as JSON, built from key terms in your notes.

Types:
  fill_blank     - sentences with one blanked-out term (default)
  word_scramble  - scrambled key terms with hints`,
	RunE: runPuzzle,
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate practice questions from your notes",
	Long: `Generates a practice question bank as JSON from your notes.

Types:
  short_answer  - open questions with model answers (default)
  true_false    - statements to judge, with explanations
  flashcard     - front/back revision cards`,
	RunE: runQuestions,
}

func init() {
	quizCmd.Flags().StringVarP(&quizTopic, "topic", "t", "", "narrow the quiz to a topic")
	quizCmd.Flags().IntVarP(&quizCount, "count", "n", 0, "number of questions (default 5, max 10)")

	puzzleCmd.Flags().StringVarP(&puzzleType, "type", "t", "", "puzzle type: fill_blank or word_scramble")
	puzzleCmd.Flags().IntVarP(&puzzleCount, "count", "n", 0, "number of puzzles (default 8, max 12)")

	questionsCmd.Flags().StringVarP(&questionType, "type", "t", "", "question type: short_answer, true_false or flashcard")
	questionsCmd.Flags().IntVarP(&questionCount, "count", "n", 0, "number of questions (default 6, max 10)")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(puzzleCmd)
	rootCmd.AddCommand(questionsCmd)
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	if tutorService == nil {
		return errors.New("tutor service not configured")
	}

	req := domain.QuizRequest{Topic: quizTopic, Count: quizCount}
	quiz, err := tutorService.Quiz(cmd.Context(), resolveOwner(), req)
	if err != nil {
		return studyError("quiz", err)
	}

	cmd.Println(quiz)
	return nil
}

func runPuzzle(cmd *cobra.Command, _ []string) error {
	if tutorService == nil {
		return errors.New("tutor service not configured")
	}

	req := domain.PuzzleRequest{Kind: domain.PuzzleKind(puzzleType), Count: puzzleCount}
	puzzles, err := tutorService.Puzzle(cmd.Context(), resolveOwner(), req)
	if err != nil {
		return studyError("puzzles", err)
	}

	cmd.Println(puzzles)
	return nil
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	if tutorService == nil {
		return errors.New("tutor service not configured")
	}

	req := domain.QuestionBankRequest{Kind: domain.QuestionKind(questionType), Count: questionCount}
	questions, err := tutorService.Questions(cmd.Context(), resolveOwner(), req)
	if err != nil {
		return studyError("questions", err)
	}

	cmd.Println(questions)
	return nil
}

func studyError(what string, err error) error {
	if errors.Is(err, domain.ErrNoDocuments) {
		return fmt.Errorf("no notes to build %s from: run 'tutora ingest' first", what)
	}
	return fmt.Errorf("generating %s: %w", what, err)
}
