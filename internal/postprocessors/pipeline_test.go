package postprocessors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, _ []domain.Section, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline()

	_, err := p.Process(context.Background(), nil, nil)
	if err == nil {
		t.Error("expected error for nil document")
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	p := NewPipeline()
	doc := &domain.Document{ID: "test-doc"}
	sections := []domain.Section{{Content: "test content"}}

	chunks, err := p.Process(context.Background(), doc, sections)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_SingleProcessor(t *testing.T) {
	expectedChunks := []domain.Chunk{
		{ID: "chunk-1", Content: "test"},
	}
	p := NewPipeline(&mockProcessor{name: "first", chunks: expectedChunks})
	doc := &domain.Document{ID: "test-doc"}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "chunk-1" {
		t.Errorf("expected chunks from processor, got %v", chunks)
	}
}

func TestPipeline_Process_ChainsProcessors(t *testing.T) {
	first := &mockProcessor{
		name:   "first",
		chunks: []domain.Chunk{{ID: "a"}, {ID: "b"}},
	}
	second := &mockProcessor{name: "second"} // passes chunks through
	p := NewPipeline(first, second)
	doc := &domain.Document{ID: "test-doc"}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks after chain, got %d", len(chunks))
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "broken", err: boom})
	doc := &domain.Document{ID: "test-doc"}

	_, err := p.Process(context.Background(), doc, nil)
	if err == nil {
		t.Fatal("expected error from failing processor")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped processor error, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should name the processor, got %v", err)
	}
}

func TestPipeline_Processors(t *testing.T) {
	p := NewPipeline(
		&mockProcessor{name: "first"},
		&mockProcessor{name: "second"},
	)

	names := p.Processors()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("expected ordered processor names, got %v", names)
	}
}
