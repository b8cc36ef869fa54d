package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"how many chunks to retrieve as context (default from settings)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer         string            `json:"answer"`
	Model          string            `json:"model"`
	Sources        []CitationOutput  `json:"sources"`
	LowConfidence  bool              `json:"low_confidence"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
}

// CitationOutput attributes context to a stored chunk.
type CitationOutput struct {
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Relevance  float64 `json:"relevance"`
}

// ListDocumentsInput is the (empty) input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents   []DocumentOutput `json:"documents"`
	Count       int              `json:"count"`
	TotalChunks int              `json:"total_chunks"`
}

// DocumentOutput represents one ingested document.
type DocumentOutput struct {
	Source     string `json:"source"`
	ChunkCount int    `json:"chunk_count"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"path to a .pdf, .txt or .md file to ingest"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Source      string `json:"source"`
	ChunksAdded int    `json:"chunks_added"`
	Skipped     bool   `json:"skipped"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the indexed documents with inline citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the ingested documents and their chunk counts",
	}, s.handleListDocuments)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Ingest a local document file into the collection",
		}, s.handleIngest)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	results, err := s.ports.Answer.Retrieve(ctx, input.Question, input.TopK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Answer.Answer(ctx, input.Question, results)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:         answer.Text,
		Model:          answer.Model,
		Sources:        make([]CitationOutput, len(results)),
		LowConfidence:  domain.AverageSimilarity(results) < domain.LowConfidenceThreshold,
		ElapsedSeconds: answer.Elapsed.Seconds(),
	}

	for i := range results {
		output.Sources[i] = CitationOutput{
			Source:     results[i].Source,
			ChunkIndex: results[i].ChunkIndex,
			Relevance:  results[i].Similarity,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Library.Documents(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	total, err := s.ports.Library.TotalChunks(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents:   make([]DocumentOutput, len(docs)),
		Count:       len(docs),
		TotalChunks: total,
	}

	for i := range docs {
		output.Documents[i] = DocumentOutput{
			Source:     docs[i].Source,
			ChunkCount: docs[i].ChunkCount,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	result, err := s.ports.Ingest.Ingest(ctx, domain.NewByteSource(filepath.Base(input.Path), data))
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Source:      result.Source,
		ChunksAdded: result.ChunksAdded,
		Skipped:     result.Skipped,
	}, nil
}
