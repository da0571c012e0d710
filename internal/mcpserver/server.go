// Package mcpserver exposes the document tool over the Model Context
// Protocol.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/pdfsum/internal/tool"
)

const (
	serverName = "pdfsum"

	// SummarizeToolName is the MCP tool that returns a summary.
	SummarizeToolName = "pdf_summarize"
)

// Version is reported to MCP clients.
var Version = "v0.1.0"

type readArgs struct {
	Path string `json:"path" jsonschema:"Filesystem path of the PDF to read"`
}

type summarizeArgs struct {
	Path      string `json:"path" jsonschema:"Filesystem path of the PDF to summarize"`
	MaxLength *int   `json:"max_length,omitempty" jsonschema:"Upper bound on each chunk summary, in model tokens"`
	MinLength *int   `json:"min_length,omitempty" jsonschema:"Lower bound on each chunk summary, in model tokens"`
	ChunkSize *int   `json:"chunk_size,omitempty" jsonschema:"Characters per chunk sent to the model"`
}

// params overlays the optional arguments on defaults.
func (a summarizeArgs) params(defaults tool.Params) tool.Params {
	p := defaults
	if a.MaxLength != nil {
		p.MaxLength = *a.MaxLength
	}
	if a.MinLength != nil {
		p.MinLength = *a.MinLength
	}
	if a.ChunkSize != nil {
		p.ChunkSize = *a.ChunkSize
	}
	return p
}

// New builds an MCP server with the read and summarize tools registered.
func New(t *tool.Tool, log *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: Version,
	}, &mcp.ServerOptions{Logger: log})

	addReadTool(server, t, log)
	addSummarizeTool(server, t, log)
	return server
}

// Run serves MCP over stdin/stdout until ctx is done or the client hangs up.
func Run(ctx context.Context, t *tool.Tool, log *slog.Logger) error {
	return New(t, log).Run(ctx, &mcp.StdioTransport{})
}

func addReadTool(server *mcp.Server, t *tool.Tool, log *slog.Logger) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        t.Name(),
		Description: t.Description() + " Returns the raw text of the document.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a readArgs) (*mcp.CallToolResult, any, error) {
		log.Info("tool call", "tool", t.Name(), "path", a.Path)
		return textResult(t.Run(a.Path)), nil, nil
	})
}

func addSummarizeTool(server *mcp.Server, t *tool.Tool, log *slog.Logger) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        SummarizeToolName,
		Description: "Summarize a PDF file chunk by chunk with a pre-trained summarization model.",
		InputSchema: summarizeSchema(),
	}, func(ctx context.Context, req *mcp.CallToolRequest, a summarizeArgs) (*mcp.CallToolResult, any, error) {
		log.Info("tool call", "tool", SummarizeToolName, "path", a.Path)
		if a.Path == "" {
			return textResult(tool.NoPath), nil, nil
		}
		return textResult(t.Summarize(ctx, a.Path, a.params(t.Defaults()))), nil, nil
	})
}

func summarizeSchema() *jsonschema.Schema {
	s, err := jsonschema.For[summarizeArgs](nil)
	if err != nil {
		panic(err)
	}
	s.Properties["max_length"].Minimum = jsonschema.Ptr(0.0)
	s.Properties["min_length"].Minimum = jsonschema.Ptr(0.0)
	s.Properties["chunk_size"].Minimum = jsonschema.Ptr(1.0)
	return s
}

// textResult wraps a tool string, flagging failure messages as errors.
func textResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: s},
		},
		IsError: tool.IsErrorResult(s),
	}
}
