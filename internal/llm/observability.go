package llm

import (
	"io"
	"log/slog"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []any{
		"task", string(event.Task),
		"model", event.Model,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		attrs = append(attrs, "error_code", event.ErrorCode)
		o.logger.Error("llm_call", attrs...)
		return
	}
	o.logger.Info("llm_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
