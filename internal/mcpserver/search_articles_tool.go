package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/editorial-tools/newsdigest/internal/report"
)

const searchArticlesDescription = "Retrieve the latest article IDs and text " +
	"for a given search term and summarize every article to one sentence. " +
	"The answer lists the article ID for every article."

func searchArticlesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_articles",
		Description: searchArticlesDescription,
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"search_term": {
					Type:        "string",
					Description: "Term to find news for.",
				},
			},
			Required: []string{"search_term"},
		},
	}
}

type searchArticlesArgs struct {
	SearchTerm string `json:"search_term"`
}

func (s *Server) handleSearchArticles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	var args searchArticlesArgs
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			s.recordTool("invalid", start)
			return errorResult(fmt.Sprintf("invalid tool arguments: %v", err)), nil
		}
	}

	if strings.TrimSpace(args.SearchTerm) == "" {
		s.recordTool("invalid", start)
		return errorResult("search_term is required"), nil
	}

	ctx = report.WithExecution(ctx, report.ExecutionContext{
		SessionID:   uuid.NewString(),
		AgentID:     s.agentID,
		ExecutionID: uuid.NewString(),
	})

	answer, err := s.pipeline.Run(ctx, args.SearchTerm)
	if err != nil {
		s.logger.Error("tool execution failed",
			zap.String("search_term", args.SearchTerm),
			zap.Error(err),
		)
		s.recordTool("error", start)
		return errorResult(fmt.Sprintf("search_articles failed: %v", err)), nil
	}

	s.recordTool("ok", start)
	return textResult(answer), nil
}

func (s *Server) recordTool(status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordToolRequest(status, time.Since(start))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
