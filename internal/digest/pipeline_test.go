package digest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/editorial-tools/newsdigest/internal/llm"
	llmMock "github.com/editorial-tools/newsdigest/internal/llm/mock"
	"github.com/editorial-tools/newsdigest/internal/search"
	searchMock "github.com/editorial-tools/newsdigest/internal/search/mock"
)

type recordingReporter struct {
	Messages []string
}

func (r *recordingReporter) ReportModelError(ctx context.Context, message string) {
	r.Messages = append(r.Messages, message)
}

func newTestPipeline(t *testing.T, sc *searchMock.Client, lc *llmMock.Client, reporter *recordingReporter, cfg Config) *Pipeline {
	t.Helper()

	p, err := New(Deps{
		Search:   sc,
		LLM:      lc,
		Reporter: reporter,
		Logger:   zap.NewNop(),
		Config:   cfg,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestPipeline_Run_Summarized(t *testing.T) {
	sc := searchMock.New().WithDocuments(
		search.Document{ID: "a1", CleanText: "Prices rose."},
		search.Document{ID: "a2", CleanText: "Fed raised rates."},
	)
	lc := llmMock.New().WithResponse("Inflation is cooling.")
	p := newTestPipeline(t, sc, lc, &recordingReporter{}, Config{Summarize: true, MaxTokens: 512})

	got, err := p.Run(context.Background(), "inflation")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "Inflation is cooling.\n\nArticle IDs:\n- a1\n- a2"
	if got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}

	if sc.LastRequest.Offset != 0 || sc.LastRequest.Limit != 5 {
		t.Errorf("search request = %+v, want offset 0 limit 5", sc.LastRequest)
	}

	if lc.CallCount != 1 {
		t.Fatalf("llm calls = %d, want 1", lc.CallCount)
	}
	if lc.LastMaxTokens != 512 {
		t.Errorf("max tokens = %d, want 512", lc.LastMaxTokens)
	}
	if len(lc.LastMessages) != 1 || lc.LastMessages[0].Role != "system" {
		t.Fatalf("messages = %+v, want single system message", lc.LastMessages)
	}
	prompt := lc.LastMessages[0].Content
	if !strings.Contains(prompt, "inflation") {
		t.Errorf("prompt missing search term:\n%s", prompt)
	}
	if !strings.Contains(prompt, `["Prices rose.","Fed raised rates."]`) {
		t.Errorf("prompt missing snippet list:\n%s", prompt)
	}
}

func TestPipeline_Run_NoArticles(t *testing.T) {
	tests := []struct {
		name      string
		searchErr error
	}{
		{"empty results", search.ErrEmptyResults},
		{"transport failure", search.ErrSearchFailed},
		{"unauthorized", search.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := searchMock.New().WithError(tt.searchErr)
			lc := llmMock.New()
			p := newTestPipeline(t, sc, lc, &recordingReporter{}, Config{Summarize: true})

			got, err := p.Run(context.Background(), "inflation")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got != "No articles on inflation." {
				t.Errorf("Run() = %q, want %q", got, "No articles on inflation.")
			}
			if lc.CallCount != 0 {
				t.Errorf("llm calls = %d, want 0", lc.CallCount)
			}
		})
	}
}

func TestPipeline_Run_SummarizeDisabled(t *testing.T) {
	sc := searchMock.New().WithDocuments(
		search.Document{ID: "a1", CleanText: "Prices rose."},
	)
	p := newTestPipeline(t, sc, nil, &recordingReporter{}, Config{Summarize: false})

	got, err := p.Run(context.Background(), "inflation")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{`"document_id": "a1"`, `"clean_text": "Prices rose."`} {
		if !strings.Contains(got, want) {
			t.Errorf("Run() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "Article IDs:") {
		t.Errorf("raw variant should not carry the summary footer: %q", got)
	}
}

func TestPipeline_Run_ModelError(t *testing.T) {
	sc := searchMock.New().WithDocuments(
		search.Document{ID: "a1", CleanText: "Prices rose."},
	)
	lc := llmMock.New().WithError(&llm.APIError{Message: "model overloaded", Type: "server_error"})
	reporter := &recordingReporter{}
	p := newTestPipeline(t, sc, lc, reporter, Config{Summarize: true})

	got, err := p.Run(context.Background(), "inflation")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(reporter.Messages) != 1 || reporter.Messages[0] != "model overloaded" {
		t.Errorf("reporter messages = %v, want [model overloaded]", reporter.Messages)
	}

	// Degraded output still gives the caller the documents.
	if !strings.Contains(got, `"document_id": "a1"`) {
		t.Errorf("degraded output missing documents: %q", got)
	}
}

func TestPipeline_Run_EmptySearchTerm(t *testing.T) {
	p := newTestPipeline(t, searchMock.New(), llmMock.New(), &recordingReporter{}, Config{Summarize: true})

	_, err := p.Run(context.Background(), "   ")
	if !errors.Is(err, ErrEmptySearchTerm) {
		t.Errorf("Run() error = %v, want ErrEmptySearchTerm", err)
	}
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	sc := searchMock.New().WithDocuments(
		search.Document{ID: "a1", CleanText: "Prices rose."},
		search.Document{ID: "a2", CleanText: "Fed raised rates."},
	)
	lc := llmMock.New().WithResponse("Stable summary.")
	p := newTestPipeline(t, sc, lc, &recordingReporter{}, Config{Summarize: true})

	first, err := p.Run(context.Background(), "inflation")
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := p.Run(context.Background(), "inflation")
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if first != second {
		t.Errorf("repeated run diverged:\n%s\nvs\n%s", first, second)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		deps    Deps
		wantErr error
	}{
		{"missing search", Deps{LLM: llmMock.New()}, ErrMissingSearch},
		{"missing llm with summarize", Deps{Search: searchMock.New(), Config: Config{Summarize: true}}, ErrMissingLLM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatAnswer(t *testing.T) {
	got := FormatAnswer("Summary text.", []string{"a1", "a2", "a3"})
	want := "Summary text.\n\nArticle IDs:\n- a1\n- a2\n- a3"
	if got != want {
		t.Errorf("FormatAnswer() = %q, want %q", got, want)
	}
}
