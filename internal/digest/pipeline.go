package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/editorial-tools/newsdigest/internal/llm"
	"github.com/editorial-tools/newsdigest/internal/metrics"
	"github.com/editorial-tools/newsdigest/internal/report"
	"github.com/editorial-tools/newsdigest/internal/search"
)

var (
	ErrEmptySearchTerm = errors.New("search term cannot be empty")
	ErrMissingSearch   = errors.New("search client is required")
	ErrMissingLLM      = errors.New("llm client is required when summarization is enabled")
)

type Config struct {
	PageSize    int
	Summarize   bool
	MaxTokens   int
	LLMProvider string
}

type Deps struct {
	Search   search.Client
	LLM      llm.Client
	Reporter report.Reporter
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Config   Config
}

// Pipeline runs one search-and-summarize pass per call: search the document
// API, optionally condense the snippets through the LLM, format the answer.
// It is stateless; every invocation is independent.
type Pipeline struct {
	search   search.Client
	llm      llm.Client
	reporter report.Reporter
	logger   *zap.Logger
	metrics  *metrics.Metrics
	cfg      Config
}

func New(deps Deps) (*Pipeline, error) {
	if deps.Search == nil {
		return nil, ErrMissingSearch
	}
	if deps.Config.Summarize && deps.LLM == nil {
		return nil, ErrMissingLLM
	}
	if deps.Config.PageSize <= 0 {
		deps.Config.PageSize = 5
	}
	if deps.Config.MaxTokens <= 0 {
		deps.Config.MaxTokens = 1024
	}
	if deps.Config.LLMProvider == "" {
		deps.Config.LLMProvider = "openrouter"
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Reporter == nil {
		deps.Reporter = report.NewLogReporter(deps.Logger)
	}

	return &Pipeline{
		search:   deps.Search,
		llm:      deps.LLM,
		reporter: deps.Reporter,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		cfg:      deps.Config,
	}, nil
}

// Run returns a textual answer for the search term. Search failures and
// empty result sets both collapse to the "no articles" message; the caller
// always gets a string.
func (p *Pipeline) Run(ctx context.Context, searchTerm string) (string, error) {
	if strings.TrimSpace(searchTerm) == "" {
		return "", ErrEmptySearchTerm
	}

	resp, err := p.runSearch(ctx, searchTerm)
	if err != nil {
		if errors.Is(err, search.ErrEmptyResults) {
			p.logger.Info("no documents found", zap.String("search_term", searchTerm))
		} else {
			p.logger.Warn("search failed, treating as no results",
				zap.String("search_term", searchTerm),
				zap.Error(err),
			)
		}
		return NoArticlesMessage(searchTerm), nil
	}

	if !p.cfg.Summarize {
		return rawAnswer(resp)
	}

	summary, err := p.summarize(ctx, searchTerm, resp.Snippets())
	if err != nil {
		p.reporter.ReportModelError(ctx, modelErrorMessage(err))
		p.logger.Warn("summarization failed, returning raw documents",
			zap.String("search_term", searchTerm),
			zap.Error(err),
		)
		return rawAnswer(resp)
	}

	return FormatAnswer(summary, resp.IDs()), nil
}

func (p *Pipeline) runSearch(ctx context.Context, searchTerm string) (*search.Response, error) {
	start := time.Now()
	resp, err := p.search.Search(ctx, search.Request{
		SearchTerm: searchTerm,
		Offset:     0,
		Limit:      p.cfg.PageSize,
	})
	p.recordSearch(err, time.Since(start))
	return resp, err
}

func (p *Pipeline) summarize(ctx context.Context, searchTerm string, snippets []string) (string, error) {
	prompt := BuildPrompt(searchTerm, snippets)
	messages := []llm.Message{llm.SystemMessage(prompt)}

	start := time.Now()
	summary, err := p.llm.ChatCompletion(ctx, messages, p.cfg.MaxTokens)
	p.recordLLM(err, time.Since(start))
	return summary, err
}

func (p *Pipeline) recordSearch(err error, duration time.Duration) {
	if p.metrics == nil {
		return
	}
	status := "ok"
	switch {
	case errors.Is(err, search.ErrEmptyResults):
		status = "empty"
	case err != nil:
		status = "error"
	}
	p.metrics.RecordSearchRequest(status, duration)
}

func (p *Pipeline) recordLLM(err error, duration time.Duration) {
	if p.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordLLMRequest(p.cfg.LLMProvider, status, duration)
}

// NoArticlesMessage is the user-visible answer for empty result sets and
// failed searches alike.
func NoArticlesMessage(searchTerm string) string {
	return fmt.Sprintf("No articles on %s.", searchTerm)
}

// FormatAnswer renders the summary followed by one "- id" line per document,
// in response order.
func FormatAnswer(summary string, ids []string) string {
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n\nArticle IDs:")
	for _, id := range ids {
		b.WriteString("\n- ")
		b.WriteString(id)
	}
	return b.String()
}

// rawAnswer is the no-summarization variant: the document list as JSON. It
// also serves as the degraded output when the model reports an error.
func rawAnswer(resp *search.Response) (string, error) {
	encoded, err := json.MarshalIndent(resp.Documents, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal documents: %w", err)
	}
	return string(encoded), nil
}

func modelErrorMessage(err error) string {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
