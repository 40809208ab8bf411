package ktb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Outcome classifies one node attempt.
type Outcome string

const (
	// OutcomeSuccess means the engine ran and found nothing to report.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the engine ran and violations remain.
	OutcomeFailure Outcome = "failure"
	// OutcomeSkipped means nothing changed since the last successful run.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoSource means the node had no files to work on.
	OutcomeNoSource Outcome = "no-source"
)

// ExecutionRecord is the persisted result of a node's last attempt. The next
// attempt compares it against the current inputs to decide whether the node
// can be skipped or its input set narrowed.
type ExecutionRecord struct {
	Task       string            `json:"task"`
	Files      map[string]string `json:"files"`
	SetHash    string            `json:"setHash"`
	ConfigHash string            `json:"configHash"`
	Outcome    Outcome           `json:"outcome"`
}

// Matches reports whether the record describes the same input set and
// configuration. Safe on a nil record.
func (r *ExecutionRecord) Matches(setHash, configHash string) bool {
	return r != nil && r.SetHash == setHash && r.ConfigHash == configHash
}

// RecordStore persists execution records, one JSON file per task.
type RecordStore struct {
	dir string
}

// NewRecordStore returns a store rooted at dir. The directory is created on
// first write.
func NewRecordStore(dir string) *RecordStore {
	return &RecordStore{dir: dir}
}

func (s *RecordStore) path(task string) string {
	return filepath.Join(s.dir, task+".json")
}

// Load returns the record for task, or nil when it is absent. An unreadable
// or corrupt record is indistinguishable from no record.
func (s *RecordStore) Load(task string) *ExecutionRecord {
	content, err := os.ReadFile(s.path(task))
	if err != nil {
		return nil
	}
	var record ExecutionRecord
	if err := json.Unmarshal(content, &record); err != nil {
		return nil
	}
	return &record
}

// Save writes the record for its task. The write goes to a temp file first
// and is renamed into place, so a cancelled build never leaves a
// half-written record behind.
func (s *RecordStore) Save(record *ExecutionRecord) error {
	content, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal execution record: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	path := s.path(record.Task)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
