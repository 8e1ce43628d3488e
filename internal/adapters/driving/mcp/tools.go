package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
)

// AskInput is the input schema for the ask_notes tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the user's notes"`
}

// AskOutput is the output schema for the ask_notes tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// QuizInput is the input schema for the generate_quiz tool.
type QuizInput struct {
	Topic string `json:"topic,omitempty" jsonschema:"optional topic to narrow the quiz to"`
	Count int    `json:"count,omitempty" jsonschema:"number of questions (default 5, max 10)"`
}

// QuizOutput is the output schema for the generate_quiz tool.
type QuizOutput struct {
	Quiz json.RawMessage `json:"quiz"`
}

// PuzzleInput is the input schema for the generate_puzzle tool.
type PuzzleInput struct {
	Type  string `json:"type,omitempty" jsonschema:"puzzle type: fill_blank or word_scramble (default fill_blank)"`
	Count int    `json:"count,omitempty" jsonschema:"number of puzzles (default 8, max 12)"`
}

// PuzzleOutput is the output schema for the generate_puzzle tool.
type PuzzleOutput struct {
	Puzzles json.RawMessage `json:"puzzles"`
}

// QuestionsInput is the input schema for the generate_questions tool.
type QuestionsInput struct {
	Type  string `json:"type,omitempty" jsonschema:"question type: short_answer, true_false or flashcard (default short_answer)"`
	Count int    `json:"count,omitempty" jsonschema:"number of questions (default 6, max 10)"`
}

// QuestionsOutput is the output schema for the generate_questions tool.
type QuestionsOutput struct {
	Questions json.RawMessage `json:"questions"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// DocumentInfo describes one ingested document.
type DocumentInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	Indexed  bool   `json:"indexed"`
	Uploaded string `json:"uploaded"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_notes",
		Description: "Answer a question using only the user's ingested notes",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_quiz",
		Description: "Generate a multiple-choice quiz from the user's notes",
	}, s.handleQuiz)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_puzzle",
		Description: "Generate word puzzles from key terms in the user's notes",
	}, s.handlePuzzle)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_questions",
		Description: "Generate practice questions from the user's notes",
	}, s.handleQuestions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents in the user's note library",
	}, s.handleListDocuments)
}

// handleAsk handles the ask_notes tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Tutor.Ask(ctx, input.Question, s.ports.owner())
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{Answer: result.Answer}
	seen := make(map[string]bool, len(result.Sources))
	for _, src := range result.Sources {
		if seen[src.Chunk.Filename] {
			continue
		}
		seen[src.Chunk.Filename] = true
		output.Sources = append(output.Sources, src.Chunk.Filename)
	}

	return nil, output, nil
}

// handleQuiz handles the generate_quiz tool invocation.
func (s *Server) handleQuiz(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuizInput,
) (*mcp.CallToolResult, QuizOutput, error) {
	req := domain.QuizRequest{Topic: input.Topic, Count: input.Count}
	quiz, err := s.ports.Tutor.Quiz(ctx, s.ports.owner(), req)
	if err != nil {
		return nil, QuizOutput{}, err
	}

	return nil, QuizOutput{Quiz: rawJSON(quiz)}, nil
}

// handlePuzzle handles the generate_puzzle tool invocation.
func (s *Server) handlePuzzle(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PuzzleInput,
) (*mcp.CallToolResult, PuzzleOutput, error) {
	req := domain.PuzzleRequest{Kind: domain.PuzzleKind(input.Type), Count: input.Count}
	puzzles, err := s.ports.Tutor.Puzzle(ctx, s.ports.owner(), req)
	if err != nil {
		return nil, PuzzleOutput{}, err
	}

	return nil, PuzzleOutput{Puzzles: rawJSON(puzzles)}, nil
}

// handleQuestions handles the generate_questions tool invocation.
func (s *Server) handleQuestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionsInput,
) (*mcp.CallToolResult, QuestionsOutput, error) {
	req := domain.QuestionBankRequest{Kind: domain.QuestionKind(input.Type), Count: input.Count}
	questions, err := s.ports.Tutor.Questions(ctx, s.ports.owner(), req)
	if err != nil {
		return nil, QuestionsOutput{}, err
	}

	return nil, QuestionsOutput{Questions: rawJSON(questions)}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Documents == nil {
		return nil, ListDocumentsOutput{Documents: []DocumentInfo{}}, nil
	}

	docs, err := s.ports.Documents.List(ctx, s.ports.owner())
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentInfo, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentInfo{
			ID:       docs[i].ID,
			Filename: docs[i].Filename,
			Chunks:   docs[i].ChunkCount,
			Indexed:  docs[i].Indexed,
			Uploaded: docs[i].UploadedAt.UTC().Format("2006-01-02 15:04:05"),
		}
	}

	return nil, output, nil
}

// rawJSON passes model output through when it is valid JSON and wraps
// it as a JSON string otherwise. Generation does not validate the
// model's syntax, so the tool result must stay well-formed either way.
func rawJSON(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, err := json.Marshal(s)
	if err != nil {
		return json.RawMessage(`""`)
	}
	return json.RawMessage(quoted)
}
