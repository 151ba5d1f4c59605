package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// WebhookReporter forwards model errors to an external error handler over
// HTTP. Delivery failures are logged and swallowed.
type WebhookReporter struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewWebhookReporter(cfg WebhookConfig, logger *zap.Logger) *WebhookReporter {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &WebhookReporter{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type webhookPayload struct {
	SessionID   string `json:"session_id,omitempty"`
	AgentID     string `json:"agent_id,omitempty"`
	ExecutionID string `json:"execution_id,omitempty"`
	Message     string `json:"message"`
}

func (r *WebhookReporter) ReportModelError(ctx context.Context, message string) {
	payload := webhookPayload{Message: message}
	if ec, ok := ExecutionFromContext(ctx); ok {
		payload.SessionID = ec.SessionID
		payload.AgentID = ec.AgentID
		payload.ExecutionID = ec.ExecutionID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("marshal error report", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		r.logger.Error("create error report request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("deliver error report", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		r.logger.Error("error report rejected", zap.Int("status", resp.StatusCode))
	}
}

var _ Reporter = (*WebhookReporter)(nil)
