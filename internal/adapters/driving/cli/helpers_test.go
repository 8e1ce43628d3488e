package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockIngestService struct {
	result  *driving.IngestResult
	results []driving.IngestResult
	err     error
	dirErr  error
	paths   []string
	owners  []string
}

func (m *mockIngestService) Ingest(_ context.Context, path, ownerID string) (*driving.IngestResult, error) {
	m.paths = append(m.paths, path)
	m.owners = append(m.owners, ownerID)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &driving.IngestResult{
		Document:   &domain.Document{ID: "doc-1", OwnerID: ownerID, Filename: "biology.txt"},
		ChunkCount: 3,
		Indexed:    true,
	}, nil
}

func (m *mockIngestService) IngestDir(_ context.Context, dir, ownerID string) ([]driving.IngestResult, error) {
	m.paths = append(m.paths, dir)
	m.owners = append(m.owners, ownerID)
	return m.results, m.dirErr
}

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
	if m.err != nil {
		return nil, m.err
	}
	if m.askResult != nil {
		return m.askResult, nil
	}
	return &driving.AskResult{
		Answer: "Cells divide by mitosis.",
		Sources: []domain.RetrievedChunk{
			{Chunk: domain.Chunk{Filename: "biology.txt"}, Similarity: 0.9},
		},
	}, nil
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

type mockDocumentService struct {
	docs      []domain.Document
	details   *driving.DocumentDetails
	content   string
	stats     *driving.LibraryStats
	compacted int
	err       error

	removedOwner string
	removedID    string
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, documentID string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == documentID {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, ownerID, documentID string) error {
	m.removedOwner = ownerID
	m.removedID = documentID
	return m.err
}

func (m *mockDocumentService) Compact(_ context.Context) (int, error) {
	return m.compacted, m.err
}

func (m *mockDocumentService) Stats(_ context.Context, _ string) (*driving.LibraryStats, error) {
	return m.stats, m.err
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	owner       string
	validateErr error
	embedErr    error
	llmErr      error
	err         error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings != nil {
		return m.settings, nil
	}
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(*domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(domain.AIProvider, string, string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(domain.AIProvider, string, string) error {
	return m.err
}

func (m *mockSettingsService) Owner() string {
	if m.owner != "" {
		return m.owner
	}
	return "default"
}

func (m *mockSettingsService) SetOwner(ownerID string) error {
	if m.err != nil {
		return m.err
	}
	m.owner = ownerID
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.embedErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.llmErr }

// --- Test helpers ---

var testUploaded = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// setupTestServices swaps all command services for mocks and returns a
// cleanup that restores the originals.
func setupTestServices() func() {
	oldIngest := ingestService
	oldTutor := tutorService
	oldDocs := documentService
	oldSettings := settingsService

	ingestService = &mockIngestService{}
	tutorService = &mockTutorService{study: `{"questions": []}`}
	documentService = &mockDocumentService{
		docs: []domain.Document{
			{
				ID:         "doc-1",
				OwnerID:    "default",
				Filename:   "biology.txt",
				Format:     domain.FormatText,
				ChunkCount: 3,
				Indexed:    true,
				UploadedAt: testUploaded,
			},
		},
		details: &driving.DocumentDetails{
			ID:         "doc-1",
			OwnerID:    "default",
			Filename:   "biology.txt",
			Format:     "txt",
			ChunkCount: 3,
			Indexed:    true,
			UploadedAt: testUploaded,
		},
		content: "Cells divide by mitosis.",
		stats:   &driving.LibraryStats{Documents: 1, Vectors: 4, Tombstoned: 0},
	}
	settingsService = &mockSettingsService{}

	return func() {
		ingestService = oldIngest
		tutorService = oldTutor
		documentService = oldDocs
		settingsService = oldSettings
	}
}
