package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// FailureRecord tracks one file that has failed processing, with the
// attempt count that enforces the retry ceiling.
type FailureRecord struct {
	FilePath     string `json:"FilePath"`
	FileName     string `json:"FileName"`
	ErrorReason  string `json:"ErrorReason"`
	AttemptCount int    `json:"AttemptCount"`
	FirstAttempt string `json:"FirstAttempt"`
	LastAttempt  string `json:"LastAttempt"`
}

// FailureTracker is the bounded-retry store, keyed by file path. Same
// JSON-array persistence scheme as the cache.
type FailureTracker struct {
	path    string
	log     *slog.Logger
	records []FailureRecord
	byPath  map[string]int
	dirty   bool
}

func LoadFailures(path string, log *slog.Logger) *FailureTracker {
	if log == nil {
		log = slog.Default()
	}
	t := &FailureTracker{path: path, log: log, byPath: make(map[string]int)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failures.read_error", "path", path, "error", err)
		}
		return t
	}
	var records []FailureRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Warn("failures.malformed", "path", path, "error", err)
		return t
	}
	t.records = records
	for i, r := range records {
		t.byPath[r.FilePath] = i
	}
	log.Info("failures.loaded", "path", path, "records", len(records))
	return t
}

// Find returns the failure record for a path, if any.
func (t *FailureTracker) Find(path string) (FailureRecord, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return FailureRecord{}, false
	}
	return t.records[i], true
}

// AttemptCount returns how many times the path has failed; zero if never.
func (t *FailureTracker) AttemptCount(path string) int {
	if rec, ok := t.Find(path); ok {
		return rec.AttemptCount
	}
	return 0
}

// AddFailure records one more failed attempt for the path. A new path
// starts at attempt 1; an existing record has its count bumped and reason
// replaced. One call per processing attempt keeps counts honest.
func (t *FailureTracker) AddFailure(path, name, reason string) {
	now := time.Now().Format(timestampLayout)
	if i, ok := t.byPath[path]; ok {
		t.records[i].AttemptCount++
		t.records[i].ErrorReason = reason
		t.records[i].LastAttempt = now
	} else {
		t.byPath[path] = len(t.records)
		t.records = append(t.records, FailureRecord{
			FilePath:     path,
			FileName:     name,
			ErrorReason:  reason,
			AttemptCount: 1,
			FirstAttempt: now,
			LastAttempt:  now,
		})
	}
	t.dirty = true
}

// RemoveFailure clears the record after a successful run so the file is
// no longer counted against the retry ceiling.
func (t *FailureTracker) RemoveFailure(path string) {
	i, ok := t.byPath[path]
	if !ok {
		return
	}
	t.records = append(t.records[:i], t.records[i+1:]...)
	delete(t.byPath, path)
	for j := i; j < len(t.records); j++ {
		t.byPath[t.records[j].FilePath] = j
	}
	t.dirty = true
}

// Exhausted reports whether the path has used up its retry budget.
func (t *FailureTracker) Exhausted(path string, maxAttempts int) bool {
	return t.AttemptCount(path) >= maxAttempts
}

// RetryCandidates lists failed files still under the retry ceiling.
func (t *FailureTracker) RetryCandidates(maxAttempts int) []FailureRecord {
	var out []FailureRecord
	for _, r := range t.records {
		if r.AttemptCount < maxAttempts {
			out = append(out, r)
		}
	}
	return out
}

// Records returns all failure records in insertion order.
func (t *FailureTracker) Records() []FailureRecord {
	return t.records
}

func (t *FailureTracker) Len() int { return len(t.records) }

// FailureStats summarizes the tracker for run reporting.
type FailureStats struct {
	Entries       int
	RetryEligible int
}

func (t *FailureTracker) Stats(maxAttempts int) FailureStats {
	return FailureStats{
		Entries:       len(t.records),
		RetryEligible: len(t.RetryCandidates(maxAttempts)),
	}
}

func (t *FailureTracker) Persist() error {
	if !t.dirty {
		return nil
	}
	if err := writeJSONArray(t.path, t.records); err != nil {
		return fmt.Errorf("persist failures: %w", err)
	}
	t.dirty = false
	t.log.Info("failures.persisted", "path", t.path, "records", len(t.records))
	return nil
}
