package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"
)

// SQLiteCheckpointStore implements CheckpointStore against a local
// SQLite file, an alternate backend to FileStore's plain-JSON layout for
// callers who want transactional checkpoint writes without a server
// process.
type SQLiteCheckpointStore struct {
	db *sql.DB
}

// NewSQLiteCheckpointStore opens (creating if absent) a SQLite database
// at path and ensures its checkpoints table exists. WAL mode is enabled
// for concurrent readers, matching the single-writer discipline the
// executor otherwise holds in memory.
func NewSQLiteCheckpointStore(path string) (*SQLiteCheckpointStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS checkpoints (
			run_id TEXT NOT NULL,
			checkpoint_id TEXT NOT NULL,
			record TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (run_id, checkpoint_id)
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create checkpoints table: %w", err)
	}

	return &SQLiteCheckpointStore{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLiteCheckpointStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteCheckpointStore) SaveCheckpoint(ctx context.Context, rec CheckpointRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: save checkpoint: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (run_id, checkpoint_id, record, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, checkpoint_id) DO UPDATE SET record = excluded.record, created_at = excluded.created_at
	`, rec.RunID, rec.CheckpointID, string(data), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: save checkpoint: %w", err)
	}
	return nil
}

func (s *SQLiteCheckpointStore) LoadCheckpoint(ctx context.Context, runID, checkpointID string) (CheckpointRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM checkpoints WHERE run_id = ? AND checkpoint_id = ?`,
		runID, checkpointID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return CheckpointRecord{}, ErrNotFound
	}
	if err != nil {
		return CheckpointRecord{}, fmt.Errorf("store: load checkpoint: %w", err)
	}
	var rec CheckpointRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return CheckpointRecord{}, fmt.Errorf("store: load checkpoint: %w", err)
	}
	return rec, nil
}

func (s *SQLiteCheckpointStore) ListCheckpoints(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT checkpoint_id FROM checkpoints WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: list checkpoints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: list checkpoints: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list checkpoints: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
