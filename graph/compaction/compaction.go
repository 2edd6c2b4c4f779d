// Package compaction implements the summarization-trigger policy and its
// pre/post hook contract (spec §4.6, component F).
package compaction

// Policy configures when a session's history should be summarized.
// MaxMessages, MaxTokens and ContextWindow are optional: nil means "not
// configured", and any non-nil value, zero included, is a threshold.
type Policy struct {
	MaxMessages   *int
	MaxTokens     *int
	TokenRatio    *float64
	ContextWindow *int
	Enabled       bool
}

// RequiresTokenUsage reports whether any configured trigger needs a token
// count to evaluate, so callers know whether to compute one before
// calling ShouldCompactWithUsage.
func (p Policy) RequiresTokenUsage() bool {
	if p.MaxTokens != nil {
		return true
	}
	return p.ContextWindow != nil && p.TokenRatio != nil && *p.TokenRatio > 0
}

// ShouldCompactWithUsage evaluates the trigger: enabled, and either the
// message count exceeds MaxMessages, or the token total meets MaxTokens
// (or floor(context_window * token_ratio) when that pair is configured
// with a positive ratio).
func (p Policy) ShouldCompactWithUsage(messageCount, tokenTotal int) bool {
	if !p.Enabled {
		return false
	}
	if p.MaxMessages != nil && messageCount > *p.MaxMessages {
		return true
	}
	if p.MaxTokens != nil && tokenTotal >= *p.MaxTokens {
		return true
	}
	if p.ContextWindow != nil && p.TokenRatio != nil && *p.TokenRatio > 0 {
		threshold := int(float64(*p.ContextWindow) * *p.TokenRatio)
		if tokenTotal >= threshold {
			return true
		}
	}
	return false
}

// Context is the opaque payload handed to a Hook's BeforeCompaction,
// carrying the reason compaction is being considered (spec §6
// SUPPLEMENTED FEATURES: Reason is carried over from the original
// source's compaction.Context). The executor sets Reason to "threshold"
// for every trigger; it does not tell message-count triggers from token
// triggers.
type Context struct {
	MessageCount  int
	TokenCount    int
	ContextWindow *int
	ThresholdRatio *float64
	Reason        string
}

// Result is what a Hook's BeforeCompaction returns when it elects to
// compact: a human-readable summary and the index before which history
// was condensed.
type Result struct {
	Summary         string
	TruncatedBefore int
}

// Hook lets a caller supply the actual summarization logic. Before is
// called with the trigger context; returning (result, true) instructs the
// executor to perform the compaction and emit SessionCompacted, then call
// After with the result. Returning (Result{}, false) declines, and the
// executor emits SessionCompactionRequested instead (spec §4.6).
type Hook interface {
	BeforeCompaction(ctx Context) (Result, bool)
	AfterCompaction(result Result)
}
