package categorize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// VendorOverride pins a vendor to a category ahead of keyword matching.
// Pattern matching is a case-insensitive substring test on the vendor name.
type VendorOverride struct {
	VendorPattern string `json:"vendor_pattern"`
	Category      string `json:"category"`
	Enabled       bool   `json:"enabled"`
}

// LoadOverrides reads vendor overrides from a JSON file. Overrides are an
// optional refinement, so a missing or malformed file degrades to none.
func LoadOverrides(path string, log *slog.Logger) []VendorOverride {
	if log == nil {
		log = slog.Default()
	}
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("categorize.overrides_read_error", "path", path, "error", err)
		}
		return nil
	}
	var overrides []VendorOverride
	if err := json.Unmarshal(raw, &overrides); err != nil {
		log.Warn("categorize.overrides_malformed", "path", path, "error", err)
		return nil
	}
	for i, o := range overrides {
		if o.VendorPattern == "" || o.Category == "" {
			log.Warn("categorize.override_incomplete", "index", i)
		}
	}
	log.Info("categorize.overrides_loaded", "path", path, "count", len(overrides))
	return overrides
}

// SaveOverrides writes the override list back, pretty-printed for hand
// editing.
func SaveOverrides(path string, overrides []VendorOverride) error {
	data, err := json.MarshalIndent(overrides, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
