// Package mcpserver exposes the query engine's search API as an MCP tool:
// a Server wrapping the engine, a typed input/output pair, jsonschema
// struct tags.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/Aman-CERP/picky/internal/transport"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the MCP tool's input schema.
type SearchInput struct {
	Index  string `json:"index" jsonschema:"the index to search"`
	Query  string `json:"query" jsonschema:"the query text, optionally carrying qualifier: prefixes"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of ids to return, default 20"`
	Offset int    `json:"offset,omitempty" jsonschema:"number of leading results to skip"`
}

// SearchOutput is the MCP tool's output schema.
type SearchOutput struct {
	IDs         []uint32 `json:"ids" jsonschema:"matching record ids, ranked descending by allocation score"`
	Truncated   bool     `json:"truncated" jsonschema:"true if the query's deadline expired before enumeration finished"`
	Allocations int      `json:"allocations_evaluated" jsonschema:"number of allocations the engine evaluated before stopping"`
}

// Server wraps a transport.Engine as an MCP server exposing one "search"
// tool.
type Server struct {
	mcp    *mcp.Server
	engine *transport.Engine
	logger *slog.Logger
}

// New builds a Server over engine, registering its search tool. A nil
// logger falls back to slog.Default().
func New(engine *transport.Engine, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcp: mcp.NewServer(
			&mcp.Implementation{Name: "picky", Version: version},
			nil,
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server, for embedding in a custom
// transport setup.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Serve runs the server over stdio until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.logger.Error("MCP server stopped with error", "error", err)
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Search a configured index by query text, returning matching record ids ranked by allocation score.",
	}, s.handleSearch)
	s.logger.Debug("registered MCP tool", "name", "search")
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	if input.Index == "" {
		return nil, SearchOutput{}, errInvalidParams("index is required")
	}
	if input.Query == "" {
		return nil, SearchOutput{}, errInvalidParams("query is required")
	}

	result, err := s.engine.Search(ctx, input.Index, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		IDs:         result.IDs,
		Truncated:   result.Truncated,
		Allocations: len(result.Allocations),
	}, nil
}
