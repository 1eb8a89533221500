package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nathanfields/invoice-cataloger/internal/deduction"
	"github.com/nathanfields/invoice-cataloger/internal/llm"
)

const timestampLayout = "2006-01-02 15:04:05"

// CacheRecord is one processed file keyed by content hash. The JSON field
// names are a stable on-disk contract; reports and reruns read them back.
type CacheRecord struct {
	FileName      string            `json:"FileName"`
	FileHash      string            `json:"FileHash"`
	ProcessedDate string            `json:"ProcessedDate"`
	ExtractedData llm.InvoiceFields `json:"ExtractedData"`
	Category      string            `json:"Category"`
	Deduction     deduction.Result  `json:"Deduction"`
}

// ProcessingCache is the content-addressed dedup store: a JSON array on
// disk, read fully at startup and rewritten fully on persist. Volumes are
// a few thousand records at most, so whole-file rewrites stay trivial.
type ProcessingCache struct {
	path    string
	log     *slog.Logger
	records []CacheRecord
	byHash  map[string]int
	dirty   bool
}

// LoadCache reads the cache file. A missing file is a normal first run; a
// malformed file is logged and treated as empty rather than aborting the
// batch.
func LoadCache(path string, log *slog.Logger) *ProcessingCache {
	if log == nil {
		log = slog.Default()
	}
	c := &ProcessingCache{path: path, log: log, byHash: make(map[string]int)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("cache.read_error", "path", path, "error", err)
		}
		return c
	}
	var records []CacheRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Warn("cache.malformed", "path", path, "error", err)
		return c
	}
	c.records = records
	for i, r := range records {
		c.byHash[r.FileHash] = i
	}
	log.Info("cache.loaded", "path", path, "records", len(records))
	return c
}

// Find returns the record for a content hash, if any.
func (c *ProcessingCache) Find(hash string) (CacheRecord, bool) {
	i, ok := c.byHash[hash]
	if !ok {
		return CacheRecord{}, false
	}
	return c.records[i], true
}

// Add inserts or replaces the record for rec.FileHash.
func (c *ProcessingCache) Add(rec CacheRecord) {
	if rec.ProcessedDate == "" {
		rec.ProcessedDate = time.Now().Format(timestampLayout)
	}
	if i, ok := c.byHash[rec.FileHash]; ok {
		c.records[i] = rec
	} else {
		c.byHash[rec.FileHash] = len(c.records)
		c.records = append(c.records, rec)
	}
	c.dirty = true
}

// Records returns all cached records in insertion order.
func (c *ProcessingCache) Records() []CacheRecord {
	return c.records
}

func (c *ProcessingCache) Len() int { return len(c.records) }

// CacheStats summarizes the cache for run reporting.
type CacheStats struct {
	Entries       int
	UniqueVendors int
}

func (c *ProcessingCache) Stats() CacheStats {
	vendors := make(map[string]struct{})
	for _, r := range c.records {
		if r.ExtractedData.VendorName != "" {
			vendors[r.ExtractedData.VendorName] = struct{}{}
		}
	}
	return CacheStats{Entries: len(c.records), UniqueVendors: len(vendors)}
}

// Persist rewrites the whole file atomically (temp file + rename) so a
// crash mid-write never corrupts the store.
func (c *ProcessingCache) Persist() error {
	if !c.dirty {
		return nil
	}
	if err := writeJSONArray(c.path, c.records); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.dirty = false
	c.log.Info("cache.persisted", "path", c.path, "records", len(c.records))
	return nil
}

func writeJSONArray(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".store-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
