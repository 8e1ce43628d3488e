package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

// TutorService answers questions and generates study material, always
// grounded in the owner's own notes. Every operation follows the same
// shape: retrieve passages, build a prompt around them, run the model.
// When retrieval finds nothing there is nothing to ground on, so the
// model is never called.
type TutorService struct {
	retriever driving.RetrievalService
	prompts   *PromptBuilder
	generator *GenerationService
}

// Interface guard.
var _ driving.TutorService = (*TutorService)(nil)

// NewTutorService creates a tutor over the given retrieval, prompt and
// generation services.
func NewTutorService(retriever driving.RetrievalService, prompts *PromptBuilder, generator *GenerationService) *TutorService {
	return &TutorService{
		retriever: retriever,
		prompts:   prompts,
		generator: generator,
	}
}

// Ask answers a question from the owner's notes. An empty corpus or a
// question with no matching passages yields the refusal sentence
// without touching the model.
func (s *TutorService) Ask(ctx context.Context, question, ownerID string) (*driving.AskResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty: %w", domain.ErrInvalidInput)
	}

	chunks, err := s.retriever.Retrieve(ctx, question, ownerID, domain.AnswerTopK)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		logger.Debug("No passages retrieved, refusing without a model call")
		return &driving.AskResult{Answer: domain.RefusalAnswer}, nil
	}

	prompt, err := s.prompts.BuildAnswer(question, chunks)
	if err != nil {
		return nil, err
	}

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &driving.AskResult{Answer: answer, Sources: chunks}, nil
}

// Quiz generates a multiple-choice quiz from the owner's notes and
// returns the model's raw JSON. Validation and parsing belong to the
// caller; the tutor only guarantees the prompt demanded that shape.
func (s *TutorService) Quiz(ctx context.Context, ownerID string, req domain.QuizRequest) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}

	query := strings.TrimSpace(req.Topic)
	if query == "" {
		query = domain.QuizFallbackQuery
	}

	chunks, err := s.studyChunks(ctx, query, ownerID)
	if err != nil {
		return "", err
	}

	prompt, err := s.prompts.BuildQuiz(req.Topic, req.Questions(), chunks)
	if err != nil {
		return "", err
	}
	return s.generator.Generate(ctx, prompt)
}

// Puzzle generates word puzzles from the owner's notes and returns the
// model's raw JSON.
func (s *TutorService) Puzzle(ctx context.Context, ownerID string, req domain.PuzzleRequest) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}

	chunks, err := s.studyChunks(ctx, domain.PuzzleFallbackQuery, ownerID)
	if err != nil {
		return "", err
	}

	prompt, err := s.prompts.BuildPuzzle(req.EffectiveKind(), req.Puzzles(), chunks)
	if err != nil {
		return "", err
	}
	return s.generator.Generate(ctx, prompt)
}

// Questions generates a question bank from the owner's notes and
// returns the model's raw JSON.
func (s *TutorService) Questions(ctx context.Context, ownerID string, req domain.QuestionBankRequest) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}

	chunks, err := s.studyChunks(ctx, domain.QuestionsFallbackQuery, ownerID)
	if err != nil {
		return "", err
	}

	prompt, err := s.prompts.BuildQuestions(req.EffectiveKind(), req.Items(), chunks)
	if err != nil {
		return "", err
	}
	return s.generator.Generate(ctx, prompt)
}

// studyChunks retrieves the wider passage slice the study tasks work
// from. No passages means the owner has nothing indexed to study.
func (s *TutorService) studyChunks(ctx context.Context, query, ownerID string) ([]domain.RetrievedChunk, error) {
	chunks, err := s.retriever.Retrieve(ctx, query, ownerID, domain.StudyTopK)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, domain.ErrNoDocuments
	}
	return chunks, nil
}

func (s *TutorService) ready() error {
	if s.retriever == nil || s.prompts == nil || s.generator == nil {
		return domain.ErrNotImplemented
	}
	return nil
}
