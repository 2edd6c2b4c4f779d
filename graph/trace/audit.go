package trace

import (
	"encoding/json"
	"fmt"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// ErrInvalidData is returned when an audit log names an unsupported
// version (spec §4.10 "Unknown versions fail with InvalidData").
var ErrInvalidData = fmt.Errorf("trace: invalid audit log data")

const auditLogVersion = 1

type auditLog struct {
	Version int            `json:"version"`
	Records []event.Record `json:"records"`
}

// MarshalAuditLog renders records as the versioned {"version":1,
// "records":[...]} shape spec §6 requires.
func MarshalAuditLog(records []event.Record) ([]byte, error) {
	return json.Marshal(auditLog{Version: auditLogVersion, Records: records})
}

// UnmarshalAuditLog parses either the versioned {"version":1,"records":[]}
// shape or a legacy bare JSON array of records, normalizing both into a
// record slice sorted by the §3 ordering comparator. An explicit version
// other than 1 fails with ErrInvalidData.
func UnmarshalAuditLog(data []byte) ([]event.Record, error) {
	var bareArray []event.Record
	if err := json.Unmarshal(data, &bareArray); err == nil {
		event.SortRecords(bareArray)
		return bareArray, nil
	}

	var log auditLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if log.Version != auditLogVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidData, log.Version)
	}
	event.SortRecords(log.Records)
	return log.Records, nil
}
