package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

// MockTutorService implements driving.TutorService for testing.
type MockTutorService struct {
	AskFunc func(ctx context.Context, question, ownerID string) (*driving.AskResult, error)
}

func (m *MockTutorService) Ask(
	ctx context.Context, question, ownerID string,
) (*driving.AskResult, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, ownerID)
	}
	return &driving.AskResult{Answer: domain.RefusalAnswer}, nil
}

func (m *MockTutorService) Quiz(
	ctx context.Context, ownerID string, req domain.QuizRequest,
) (string, error) {
	return "{}", nil
}

func (m *MockTutorService) Puzzle(
	ctx context.Context, ownerID string, req domain.PuzzleRequest,
) (string, error) {
	return "{}", nil
}

func (m *MockTutorService) Questions(
	ctx context.Context, ownerID string, req domain.QuestionBankRequest,
) (string, error) {
	return "{}", nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc func(ctx context.Context, ownerID string) ([]domain.Document, error)
}

func (m *MockDocumentService) List(
	ctx context.Context, ownerID string,
) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockDocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	return "", nil
}

func (m *MockDocumentService) GetDetails(
	ctx context.Context, documentID string,
) (*driving.DocumentDetails, error) {
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) Remove(ctx context.Context, ownerID, documentID string) error {
	return nil
}

func (m *MockDocumentService) Compact(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *MockDocumentService) Stats(
	ctx context.Context, ownerID string,
) (*driving.LibraryStats, error) {
	return &driving.LibraryStats{}, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	ValidateFunc func() error
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	return &settings, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	return nil
}

func (m *MockSettingsService) SetEmbeddingProvider(
	provider domain.AIProvider, model, apiKey string,
) error {
	return nil
}

func (m *MockSettingsService) SetLLMProvider(
	provider domain.AIProvider, model, apiKey string,
) error {
	return nil
}

func (m *MockSettingsService) Owner() string {
	return "default"
}

func (m *MockSettingsService) SetOwner(ownerID string) error {
	return nil
}

func (m *MockSettingsService) Validate() error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc()
	}
	return nil
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *MockSettingsService) ValidateLLMConfig() error {
	return nil
}

func TestNewPorts(t *testing.T) {
	tutor := &MockTutorService{}
	docs := &MockDocumentService{}

	ports := NewPorts(tutor, docs)

	require.NotNil(t, ports)
	assert.Equal(t, tutor, ports.Tutor)
	assert.Equal(t, docs, ports.Documents)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := &Ports{
		Tutor:     &MockTutorService{},
		Documents: &MockDocumentService{},
		Settings:  &MockSettingsService{},
	}

	err := ports.Validate()

	assert.NoError(t, err)
}

func TestPorts_Validate_MissingTutor(t *testing.T) {
	ports := &Ports{
		Tutor:     nil,
		Documents: &MockDocumentService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingTutorService)
}

func TestPorts_Validate_OptionalPortsMayBeNil(t *testing.T) {
	ports := &Ports{
		Tutor: &MockTutorService{},
	}

	err := ports.Validate()

	assert.NoError(t, err)
}
