package attachment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// reference formats an attachment id as the "attachment://<id>" wire form
// spec §4.11/§6 require. id must be a single path component.
func reference(id string) string {
	return "attachment://" + id
}

// MemoryStore keeps externalized attachments in a process-local map. It is
// the store used by the in-memory persistence backend and by tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	nextID  func() string
}

// NewMemoryStore returns an empty MemoryStore that mints ids via
// uuid.NewV7, falling back to a random v4 uuid if v7 generation fails.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record), nextID: newAttachmentID}
}

func newAttachmentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Store implements Store.
func (m *MemoryStore) Store(att Attachment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID()
	m.records[id] = Record{AttachmentID: id, CreatedAt: time.Now().UTC().Format(time.RFC3339), Attachment: att}
	return reference(id), nil
}

// Get returns the record stored under reference "attachment://<id>",
// looking it up by id.
func (m *MemoryStore) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec, ok
}

// FileStore persists attachments as attachments/<uuid>.json under Root
// (spec §4.11).
type FileStore struct {
	root string
}

// NewFileStore returns a FileStore writing under root/attachments/.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Store implements Store, writing an AttachmentRecord to
// <root>/attachments/<uuid>.json and returning its reference string.
func (f *FileStore) Store(att Attachment) (string, error) {
	id := newAttachmentID()
	dir := filepath.Join(f.root, "attachments")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("attachment store: %w", err)
	}
	rec := Record{AttachmentID: id, CreatedAt: time.Now().UTC().Format(time.RFC3339), Attachment: att}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("attachment store: %w", err)
	}
	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("attachment store: %w", err)
	}
	return reference(id), nil
}

// Load reads back the record at <root>/attachments/<id>.json.
func (f *FileStore) Load(id string) (Record, error) {
	path := filepath.Join(f.root, "attachments", id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("attachment store: %w", err)
	}
	return rec, nil
}
