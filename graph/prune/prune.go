// Package prune implements the in-place history-trim policy that retains
// only the most recent tool-related events (spec §4.7, component G).
package prune

import "github.com/wrenlabs/agentgraph/graph/event"

// Policy retains the last N tool-related events (ToolStart/Result/Error/
// Status) in a record slice; every other event kind is kept unconditionally.
type Policy struct {
	Enabled      bool
	RetainRecent int
}

func isToolEvent(k event.Kind) bool {
	switch k {
	case event.KindToolStart, event.KindToolResult, event.KindToolError, event.KindToolStatus:
		return true
	default:
		return false
	}
}

// Apply retains p.RetainRecent most recent tool events in place, keeping
// every non-tool event, and returns the count of records removed. A
// disabled policy removes nothing.
func (p Policy) Apply(records []event.Record) ([]event.Record, int) {
	if !p.Enabled {
		return records, 0
	}

	toolIndexes := make([]int, 0)
	for i, r := range records {
		if isToolEvent(r.Event.Kind) {
			toolIndexes = append(toolIndexes, i)
		}
	}
	if len(toolIndexes) <= p.RetainRecent {
		return records, 0
	}

	drop := len(toolIndexes) - p.RetainRecent
	dropSet := make(map[int]bool, drop)
	for _, idx := range toolIndexes[:drop] {
		dropSet[idx] = true
	}

	out := records[:0]
	for i, r := range records {
		if dropSet[i] {
			continue
		}
		out = append(out, r)
	}
	return out, drop
}
