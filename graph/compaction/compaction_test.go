package compaction

import "testing"

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }

func TestShouldCompactDisabled(t *testing.T) {
	p := Policy{Enabled: false, MaxMessages: intp(1)}
	if p.ShouldCompactWithUsage(100, 0) {
		t.Fatal("disabled policy should never trigger")
	}
}

func TestShouldCompactMessageCount(t *testing.T) {
	p := Policy{Enabled: true, MaxMessages: intp(10)}
	if p.ShouldCompactWithUsage(10, 0) {
		t.Fatal("count == max should not trigger (strictly greater required)")
	}
	if !p.ShouldCompactWithUsage(11, 0) {
		t.Fatal("count > max should trigger")
	}
}

func TestShouldCompactMaxTokens(t *testing.T) {
	p := Policy{Enabled: true, MaxTokens: intp(1000)}
	if !p.ShouldCompactWithUsage(0, 1000) {
		t.Fatal("tokens >= max should trigger")
	}
	if p.ShouldCompactWithUsage(0, 999) {
		t.Fatal("tokens < max should not trigger")
	}
}

func TestShouldCompactContextWindowRatio(t *testing.T) {
	p := Policy{Enabled: true, ContextWindow: intp(1000), TokenRatio: floatp(0.5)}
	if !p.ShouldCompactWithUsage(0, 500) {
		t.Fatal("tokens >= floor(window*ratio) should trigger")
	}
	if p.ShouldCompactWithUsage(0, 499) {
		t.Fatal("tokens below threshold should not trigger")
	}
}

func TestRequiresTokenUsage(t *testing.T) {
	if (Policy{}).RequiresTokenUsage() {
		t.Fatal("empty policy should not require token usage")
	}
	if !(Policy{MaxTokens: intp(10)}).RequiresTokenUsage() {
		t.Fatal("max_tokens configured should require token usage")
	}
	if !(Policy{ContextWindow: intp(10), TokenRatio: floatp(0.1)}).RequiresTokenUsage() {
		t.Fatal("context_window+ratio configured should require token usage")
	}
	if (Policy{ContextWindow: intp(10), TokenRatio: floatp(0)}).RequiresTokenUsage() {
		t.Fatal("zero ratio should not require token usage")
	}
}

func TestLoadPolicyYAML(t *testing.T) {
	p, err := LoadPolicyYAML([]byte("enabled: true\nmax_messages: 5\n"))
	if err != nil {
		t.Fatalf("LoadPolicyYAML: %v", err)
	}
	if !p.Enabled || p.MaxMessages == nil || *p.MaxMessages != 5 {
		t.Fatalf("policy = %+v", p)
	}
}
