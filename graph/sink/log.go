package sink

import (
	"context"
	"log/slog"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// Log writes one structured log record per event via an *slog.Logger.
// Sensitive tool input/output is redacted by name, the supplemented
// behavior recovered from the original source's ToolDefinition.sensitive
// flag (SPEC_FULL.md §6): a caller registers sensitive tool names once
// and Log omits their ToolStart/ToolResult payload fields from the log
// record while still logging that the call happened.
type Log struct {
	logger    *slog.Logger
	sensitive map[string]bool
}

// NewLog returns a Log sink writing through logger. If logger is nil,
// slog.Default() is used.
func NewLog(logger *slog.Logger, sensitiveTools ...string) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[string]bool, len(sensitiveTools))
	for _, name := range sensitiveTools {
		set[name] = true
	}
	return &Log{logger: logger, sensitive: set}
}

// Emit implements graph.EventSink.
func (l *Log) Emit(ctx context.Context, ev event.Event) error {
	attrs := []any{"kind", string(ev.Kind)}

	switch ev.Kind {
	case event.KindToolStart, event.KindToolResult, event.KindToolUpdate:
		attrs = append(attrs, "tool", ev.Tool, "call_id", ev.CallID)
		if !l.sensitive[ev.Tool] {
			if len(ev.ToolInput) > 0 {
				attrs = append(attrs, "tool_input", string(ev.ToolInput))
			}
			if len(ev.ToolOutput) > 0 {
				attrs = append(attrs, "tool_output", string(ev.ToolOutput))
			}
		} else {
			attrs = append(attrs, "redacted", true)
		}
	case event.KindToolError:
		attrs = append(attrs, "tool", ev.Tool, "call_id", ev.CallID, "error", ev.Error)
	case event.KindError:
		attrs = append(attrs, "error", ev.Error)
	case event.KindStepFinish:
		attrs = append(attrs, "tokens", ev.Usage.Total(), "cost", ev.Cost)
	case event.KindRunFailed, event.KindRunAborted:
		attrs = append(attrs, "reason", ev.Reason)
	}

	l.logger.InfoContext(ctx, "graph event", attrs...)
	return nil
}
