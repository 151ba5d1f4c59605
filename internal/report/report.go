package report

import (
	"context"

	"go.uber.org/zap"
)

// ExecutionContext identifies the agent run a model error belongs to. It is
// carried as an explicit context value rather than as client state so the
// same pipeline instance can serve many concurrent tool calls.
type ExecutionContext struct {
	SessionID   string
	AgentID     string
	ExecutionID string
}

type contextKey struct{}

func WithExecution(ctx context.Context, ec ExecutionContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ec)
}

func ExecutionFromContext(ctx context.Context) (ExecutionContext, bool) {
	ec, ok := ctx.Value(contextKey{}).(ExecutionContext)
	return ec, ok
}

// Reporter receives model-reported errors. Implementations are
// fire-and-forget: they must not fail the calling pipeline.
type Reporter interface {
	ReportModelError(ctx context.Context, message string)
}

type LogReporter struct {
	logger *zap.Logger
}

func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) ReportModelError(ctx context.Context, message string) {
	fields := []zap.Field{zap.String("message", message)}
	if ec, ok := ExecutionFromContext(ctx); ok {
		fields = append(fields,
			zap.String("session_id", ec.SessionID),
			zap.String("agent_id", ec.AgentID),
			zap.String("execution_id", ec.ExecutionID),
		)
	}
	r.logger.Error("model reported error", fields...)
}

var _ Reporter = (*LogReporter)(nil)
