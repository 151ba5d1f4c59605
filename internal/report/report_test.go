package report

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestExecutionContextRoundTrip(t *testing.T) {
	ec := ExecutionContext{
		SessionID:   "sess-1",
		AgentID:     "newsdigest",
		ExecutionID: "exec-1",
	}

	ctx := WithExecution(context.Background(), ec)

	got, ok := ExecutionFromContext(ctx)
	if !ok {
		t.Fatal("ExecutionFromContext() ok = false, want true")
	}
	if got != ec {
		t.Errorf("ExecutionFromContext() = %+v, want %+v", got, ec)
	}
}

func TestExecutionFromContext_Missing(t *testing.T) {
	if _, ok := ExecutionFromContext(context.Background()); ok {
		t.Error("ExecutionFromContext() ok = true on bare context, want false")
	}
}

func TestWebhookReporter_ReportModelError(t *testing.T) {
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	reporter := NewWebhookReporter(WebhookConfig{URL: server.URL}, zap.NewNop())

	ctx := WithExecution(context.Background(), ExecutionContext{
		SessionID:   "sess-1",
		AgentID:     "newsdigest",
		ExecutionID: "exec-1",
	})
	reporter.ReportModelError(ctx, "model overloaded")

	want := map[string]string{
		"session_id":   "sess-1",
		"agent_id":     "newsdigest",
		"execution_id": "exec-1",
		"message":      "model overloaded",
	}
	for k, v := range want {
		if gotPayload[k] != v {
			t.Errorf("payload[%s] = %q, want %q", k, gotPayload[k], v)
		}
	}
}

func TestWebhookReporter_DeliveryFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	reporter := NewWebhookReporter(WebhookConfig{URL: server.URL}, zap.NewNop())

	// Must not panic or block; failures are logged only.
	reporter.ReportModelError(context.Background(), "model overloaded")
}
