package ktb

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRecordStoreRoundtrip(t *testing.T) {
	store := NewRecordStore(filepath.Join(t.TempDir(), "records"))

	if got := store.Load("ktlint-main-check"); got != nil {
		t.Fatalf("Load() before save = %+v, want nil", got)
	}

	record := &ExecutionRecord{
		Task:       "ktlint-main-check",
		Files:      map[string]string{"src/App.kt": "abc123"},
		SetHash:    "set-hash",
		ConfigHash: "config-hash",
		Outcome:    OutcomeSuccess,
	}
	if err := store.Save(record); err != nil {
		t.Fatal(err)
	}

	got := store.Load("ktlint-main-check")
	if got == nil {
		t.Fatal("Load() after save = nil")
	}
	if !reflect.DeepEqual(got, record) {
		t.Errorf("Load() = %+v, want %+v", got, record)
	}
	if got := store.Load("ktlint-test-check"); got != nil {
		t.Errorf("Load() for other task = %+v, want nil", got)
	}
}

func TestRecordStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewRecordStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "ktlint-main-check.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := store.Load("ktlint-main-check"); got != nil {
		t.Errorf("Load() of corrupt record = %+v, want nil", got)
	}
}

func TestRecordStoreSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewRecordStore(dir)
	if err := store.Save(&ExecutionRecord{Task: "ktlint-main-check", Outcome: OutcomeFailure}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "ktlint-main-check.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only the record", names)
	}
}

func TestRecordMatches(t *testing.T) {
	var nilRecord *ExecutionRecord
	if nilRecord.Matches("s", "c") {
		t.Error("nil record matched")
	}

	record := &ExecutionRecord{SetHash: "s", ConfigHash: "c"}
	if !record.Matches("s", "c") {
		t.Error("identical hashes did not match")
	}
	if record.Matches("s", "other") {
		t.Error("matched despite config change")
	}
	if record.Matches("other", "c") {
		t.Error("matched despite input change")
	}
}

func TestManifestStoreRoundtrip(t *testing.T) {
	store := NewManifestStore(filepath.Join(t.TempDir(), "manifests"))

	if got := store.Load("ktlint-main-check"); got != nil {
		t.Fatalf("Load() before save = %v, want nil", got)
	}

	files := []string{"src/App.kt", "sub dir/my file.kt"}
	if err := store.Save("ktlint-main-check", files); err != nil {
		t.Fatal(err)
	}
	if got := store.Load("ktlint-main-check"); !reflect.DeepEqual(got, files) {
		t.Errorf("Load() = %v, want %v", got, files)
	}

	if err := store.Save("ktlint-main-check", nil); err != nil {
		t.Fatal(err)
	}
	if got := store.Load("ktlint-main-check"); got != nil {
		t.Errorf("Load() after empty save = %v, want nil", got)
	}
}
