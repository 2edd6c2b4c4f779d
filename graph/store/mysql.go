package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// MySQLEventRecordStore implements RunLogStore against a MySQL table,
// an alternate backend to FileStore's JSONL append log for deployments
// that already centralize state in MySQL (spec §4.11 names run logs and
// checkpoints as the persistence targets; this is the SQL-backed run-log
// half of that, grounded on the teacher's MySQL connection-pool setup).
type MySQLEventRecordStore struct {
	db *sql.DB
}

// NewMySQLEventRecordStore opens a MySQL connection via dsn and ensures
// its event_records table exists.
func NewMySQLEventRecordStore(dsn string) (*MySQLEventRecordStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping mysql: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS event_records (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(255) NOT NULL,
			seq BIGINT NOT NULL,
			record JSON NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_run_seq (run_id, seq)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create event_records table: %w", err)
	}

	return &MySQLEventRecordStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (m *MySQLEventRecordStore) Close() error {
	return m.db.Close()
}

// AppendRecord inserts one row per call; ordering on read is by seq, not
// insertion order, since concurrent writers to the same run_id are
// permitted by the §5 shared-resource model.
func (m *MySQLEventRecordStore) AppendRecord(ctx context.Context, runID string, rec event.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: append record: %w", err)
	}
	_, err = m.db.ExecContext(ctx,
		`INSERT INTO event_records (run_id, seq, record) VALUES (?, ?, ?)`,
		runID, rec.Meta.Seq, string(data),
	)
	if err != nil {
		return fmt.Errorf("store: append record: %w", err)
	}
	return nil
}

// ReadRecords returns runID's records ordered by seq.
func (m *MySQLEventRecordStore) ReadRecords(ctx context.Context, runID string) ([]event.Record, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT record FROM event_records WHERE run_id = ? ORDER BY seq ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: read records: %w", err)
	}
	defer rows.Close()

	var records []event.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("store: read records: %w", err)
		}
		var rec event.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("store: read records: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read records: %w", err)
	}
	return records, nil
}
