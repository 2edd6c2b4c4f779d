package event

import "testing"

func TestSequencerMonotonic(t *testing.T) {
	s := NewSequencer()
	r1 := s.Next(Event{Kind: KindTextDelta, Text: "a"})
	r2 := s.Next(Event{Kind: KindTextDelta, Text: "b"})
	if r1.Meta.Seq != 1 {
		t.Fatalf("first seq = %d, want 1", r1.Meta.Seq)
	}
	if r2.Meta.Seq <= r1.Meta.Seq {
		t.Fatalf("seq not increasing: %d then %d", r1.Meta.Seq, r2.Meta.Seq)
	}
}

func TestSequencerStartingAt(t *testing.T) {
	s := NewSequencerStartingAt(41)
	r := s.Next(Event{Kind: KindTextDelta})
	if r.Meta.Seq != 42 {
		t.Fatalf("seq = %d, want 42", r.Meta.Seq)
	}
}

func TestSortRecordsOrdering(t *testing.T) {
	records := []Record{
		{Meta: Meta{Seq: 2, TimestampMS: 5, EventID: "b"}},
		{Meta: Meta{Seq: 1, TimestampMS: 10, EventID: "z"}},
		{Meta: Meta{Seq: 1, TimestampMS: 10, EventID: "a"}},
	}
	SortRecords(records)
	if records[0].Meta.EventID != "a" || records[1].Meta.EventID != "z" || records[2].Meta.EventID != "b" {
		t.Fatalf("unexpected order: %+v", records)
	}
}

func TestMaxSeq(t *testing.T) {
	records := []Record{{Meta: Meta{Seq: 3}}, {Meta: Meta{Seq: 7}}, {Meta: Meta{Seq: 5}}}
	if got := MaxSeq(records); got != 7 {
		t.Fatalf("MaxSeq = %d, want 7", got)
	}
	if got := MaxSeq(nil); got != 0 {
		t.Fatalf("MaxSeq(nil) = %d, want 0", got)
	}
}

func TestTokenUsageTotal(t *testing.T) {
	u := TokenUsage{Input: 1, Output: 2, Reasoning: 3, CacheRead: 4, CacheWrite: 5}
	if u.Total() != 15 {
		t.Fatalf("Total = %d, want 15", u.Total())
	}
	sum := u.Add(TokenUsage{Input: 1})
	if sum.Input != 2 {
		t.Fatalf("Add did not accumulate Input: %+v", sum)
	}
}
