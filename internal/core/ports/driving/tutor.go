package driving

import (
	"context"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// AskResult is a grounded answer with the chunks it was built from.
type AskResult struct {
	// Answer is the model's response, or the fixed refusal when the
	// owner has no relevant material.
	Answer string

	// Sources are the retrieved chunks the answer was grounded on.
	// Empty when the answer is a refusal.
	Sources []domain.RetrievedChunk
}

// TutorService answers questions and generates study material from the
// owner's notes.
type TutorService interface {
	// Ask answers a question using only the owner's notes. When no
	// relevant chunks exist the tutor refuses without calling the model.
	Ask(ctx context.Context, question, ownerID string) (*AskResult, error)

	// Quiz generates a multiple-choice quiz as raw JSON.
	Quiz(ctx context.Context, ownerID string, req domain.QuizRequest) (string, error)

	// Puzzle generates word puzzles as raw JSON.
	Puzzle(ctx context.Context, ownerID string, req domain.PuzzleRequest) (string, error)

	// Questions generates a practice question bank as raw JSON.
	Questions(ctx context.Context, ownerID string, req domain.QuestionBankRequest) (string, error)
}
