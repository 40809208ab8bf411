package ktb

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// DefaultBaselineFile is where the baseline task writes and check reads.
const DefaultBaselineFile = "ktlint-baseline.json"

// BaselineEntry pins one tolerated violation.
type BaselineEntry struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"column"`
	Rule string `json:"rule"`
}

type baselineDoc struct {
	Entries []BaselineEntry `json:"entries"`
}

type baselineKey struct {
	file string
	line int
	col  int
	rule string
}

// Baseline is a persisted set of violations that check tolerates. The nil
// baseline tolerates nothing.
type Baseline struct {
	entries     map[baselineKey]struct{}
	fingerprint string
}

// LoadBaseline reads a baseline file. A missing file yields an empty
// baseline; a malformed one is an error naming the file.
func LoadBaseline(path string) (*Baseline, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Baseline{entries: map[baselineKey]struct{}{}}, nil
		}
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}

	var doc baselineDoc
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}

	b := &Baseline{entries: make(map[baselineKey]struct{}, len(doc.Entries))}
	for _, e := range doc.Entries {
		b.entries[baselineKey{file: NormalizePath(e.File), line: e.Line, col: e.Col, rule: e.Rule}] = struct{}{}
	}
	sum := sha256.Sum256(content)
	b.fingerprint = hex.EncodeToString(sum[:])
	return b, nil
}

// Contains reports whether the baseline tolerates v.
func (b *Baseline) Contains(v Violation) bool {
	if b == nil {
		return false
	}
	_, ok := b.entries[baselineKey{file: NormalizePath(v.File), line: v.Line, col: v.Col, rule: v.Rule}]
	return ok
}

// Len returns the number of tolerated violations.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Fingerprint identifies the loaded baseline content. It participates in the
// configuration snapshot, so editing the baseline invalidates skip decisions.
func (b *Baseline) Fingerprint() string {
	if b == nil {
		return ""
	}
	return b.fingerprint
}

// WriteBaseline persists the given violations as the new baseline, sorted
// for stable diffs. The write is atomic.
func WriteBaseline(path string, violations []Violation) error {
	doc := baselineDoc{Entries: make([]BaselineEntry, 0, len(violations))}
	for _, v := range violations {
		doc.Entries = append(doc.Entries, BaselineEntry{File: NormalizePath(v.File), Line: v.Line, Col: v.Col, Rule: v.Rule})
	}
	sort.Slice(doc.Entries, func(i, j int) bool {
		a, b := doc.Entries[i], doc.Entries[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Rule < b.Rule
	})

	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}
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
