package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

// mockTutorService is a mock implementation of driving.TutorService.
type mockTutorService struct {
	askResult *driving.AskResult
	study     string
	err       error

	gotQuestion  string
	gotOwner     string
	gotQuiz      domain.QuizRequest
	gotPuzzle    domain.PuzzleRequest
	gotQuestions domain.QuestionBankRequest
}

func (m *mockTutorService) Ask(_ context.Context, question, ownerID string) (*driving.AskResult, error) {
	m.gotQuestion = question
	m.gotOwner = ownerID
	return m.askResult, m.err
}

func (m *mockTutorService) Quiz(_ context.Context, ownerID string, req domain.QuizRequest) (string, error) {
	m.gotOwner = ownerID
	m.gotQuiz = req
	return m.study, m.err
}

func (m *mockTutorService) Puzzle(_ context.Context, ownerID string, req domain.PuzzleRequest) (string, error) {
	m.gotOwner = ownerID
	m.gotPuzzle = req
	return m.study, m.err
}

func (m *mockTutorService) Questions(_ context.Context, ownerID string, req domain.QuestionBankRequest) (string, error) {
	m.gotOwner = ownerID
	m.gotQuestions = req
	return m.study, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	stats     *driving.LibraryStats
	compacted int
	err       error

	gotOwner string
}

func (m *mockDocumentService) List(_ context.Context, ownerID string) ([]domain.Document, error) {
	m.gotOwner = ownerID
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockDocumentService) Compact(_ context.Context) (int, error) {
	return m.compacted, m.err
}

func (m *mockDocumentService) Stats(_ context.Context, _ string) (*driving.LibraryStats, error) {
	return m.stats, m.err
}

// testDocuments is a small library used across resource and tool tests.
func testDocuments() []domain.Document {
	return []domain.Document{
		{
			ID:         "doc-1",
			OwnerID:    "default",
			Filename:   "biology.txt",
			Format:     domain.FormatText,
			ChunkCount: 3,
			Indexed:    true,
			UploadedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:         "doc-2",
			OwnerID:    "default",
			Filename:   "chemistry.md",
			Format:     domain.FormatMarkdown,
			ChunkCount: 5,
			Indexed:    false,
			UploadedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}
