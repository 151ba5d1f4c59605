package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/editorial-tools/newsdigest/internal/metrics"
)

const (
	serverName    = "newsdigest"
	serverVersion = "1.0.0"
)

type Config struct {
	AgentID string
}

// Server exposes the digest pipeline to MCP clients as a single
// search_articles tool.
type Server struct {
	mcpServer *mcp.Server
	pipeline  Pipeline
	logger    *zap.Logger
	metrics   *metrics.Metrics
	agentID   string
}

// Pipeline is the search-and-summarize entry point the tool handler calls.
type Pipeline interface {
	Run(ctx context.Context, searchTerm string) (string, error)
}

func New(pipeline Pipeline, logger *zap.Logger, m *metrics.Metrics, cfg Config) *Server {
	if cfg.AgentID == "" {
		cfg.AgentID = serverName
	}

	s := &Server{
		pipeline: pipeline,
		logger:   logger,
		metrics:  m,
		agentID:  cfg.AgentID,
	}

	impl := &mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}

	s.mcpServer = mcp.NewServer(impl, nil)
	s.mcpServer.AddTool(searchArticlesTool(), s.handleSearchArticles)

	return s
}

// ServeStdio runs the server on stdin/stdout until the context is canceled
// or the client disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for serving MCP over HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}
