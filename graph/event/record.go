package event

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Meta carries the ordering metadata the recording sink attaches to every
// Event it sequences (spec §3). EventID is a globally unique opaque
// string; TimestampMS is wall-clock milliseconds; Seq is monotonic per
// Sequencer, starting at 1 unless the sequencer was started from a base
// (see NewSequencerStartingAt, used by replay continuation, spec §4.10).
type Meta struct {
	EventID     string `json:"event_id"`
	TimestampMS int64  `json:"timestamp_ms"`
	Seq         uint64 `json:"seq"`
}

// Record pairs an Event with its Meta. Records are the unit persisted to
// run logs and audit logs.
type Record struct {
	Meta  Meta  `json:"meta"`
	Event Event `json:"event"`
}

// Less implements the §3 ordering comparator: seq, then timestamp_ms,
// then event_id lexicographic. Sort with sort.Slice(records, Less(records))
// or use SortRecords directly.
func Less(records []Record) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := records[i].Meta, records[j].Meta
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		if a.TimestampMS != b.TimestampMS {
			return a.TimestampMS < b.TimestampMS
		}
		return a.EventID < b.EventID
	}
}

// SortRecords sorts records in place per the §3 ordering comparator. The
// sort is stable, which is what lets replayed records agree with emission
// order within one sequencer (spec §8 property 2).
func SortRecords(records []Record) {
	sort.SliceStable(records, Less(records))
}

// Sequencer assigns strictly increasing Seq values and wall-clock
// timestamps to freshly emitted events. One Sequencer belongs to one run;
// it is the component that turns a plain Event into a Record.
//
// Sequencer is not safe for concurrent use by multiple goroutines without
// external synchronization — per spec §5, a single run is linear, so the
// recording sink that owns a Sequencer is the only writer.
type Sequencer struct {
	seq uint64
	now func() time.Time
}

// NewSequencer returns a Sequencer whose first assigned Seq is 1.
func NewSequencer() *Sequencer {
	return &Sequencer{now: time.Now}
}

// NewSequencerStartingAt returns a Sequencer whose first assigned Seq is
// base+1. Used by replay continuation so replayed records never reuse
// sequence numbers from a prior audit log (spec §4.10).
func NewSequencerStartingAt(base uint64) *Sequencer {
	return &Sequencer{seq: base, now: time.Now}
}

// Next assigns the next Seq and current timestamp to ev and returns the
// resulting Record. The embedded EventID is a time-ordered UUIDv7 (see
// DESIGN.md's note on §4.11/§9 "time-sortable ids").
func (s *Sequencer) Next(ev Event) Record {
	s.seq++
	id, err := uuid.NewV7()
	var idStr string
	if err != nil {
		idStr = uuid.NewString()
	} else {
		idStr = id.String()
	}
	return Record{
		Meta: Meta{
			EventID:     idStr,
			TimestampMS: s.now().UnixMilli(),
			Seq:         s.seq,
		},
		Event: ev,
	}
}

// LastSeq returns the highest Seq assigned so far (0 if none yet).
func (s *Sequencer) LastSeq() uint64 { return s.seq }

// MaxSeq returns the highest Seq among records, or 0 for an empty slice.
// Used to seed NewSequencerStartingAt for continuation replay.
func MaxSeq(records []Record) uint64 {
	var max uint64
	for _, r := range records {
		if r.Meta.Seq > max {
			max = r.Meta.Seq
		}
	}
	return max
}
