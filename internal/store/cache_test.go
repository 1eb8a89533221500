package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanfields/invoice-cataloger/internal/deduction"
	"github.com/nathanfields/invoice-cataloger/internal/llm"
)

func sampleRecord(hash string) CacheRecord {
	return CacheRecord{
		FileName: "telstra_jan.pdf",
		FileHash: hash,
		ExtractedData: llm.InvoiceFields{
			VendorName:  "Telstra",
			InvoiceDate: "2025-01-15",
			Total:       89.0,
			Currency:    "AUD",
		},
		Category: "Phone & Mobile",
		Deduction: deduction.Result{
			Category:          "Phone & Mobile",
			TotalAmount:       89.0,
			WorkUsePercentage: 60,
			DeductibleAmount:  53.4,
			ClaimMethod:       "Actual cost method (work-use portion)",
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := LoadCache(path, nil)
	assert.Equal(t, 0, c.Len())

	c.Add(sampleRecord("abc123"))
	require.NoError(t, c.Persist())

	reloaded := LoadCache(path, nil)
	require.Equal(t, 1, reloaded.Len())

	rec, ok := reloaded.Find("abc123")
	require.True(t, ok)
	assert.Equal(t, "telstra_jan.pdf", rec.FileName)
	assert.Equal(t, "Telstra", rec.ExtractedData.VendorName)
	assert.Equal(t, "Phone & Mobile", rec.Category)
	assert.Equal(t, 53.4, rec.Deduction.DeductibleAmount)
	assert.NotEmpty(t, rec.ProcessedDate, "Add stamps the processing time")
}

func TestCacheFindMiss(t *testing.T) {
	c := LoadCache(filepath.Join(t.TempDir(), "cache.json"), nil)
	_, ok := c.Find("nope")
	assert.False(t, ok)
}

func TestCacheAddReplacesSameHash(t *testing.T) {
	c := LoadCache(filepath.Join(t.TempDir(), "cache.json"), nil)
	c.Add(sampleRecord("h1"))

	updated := sampleRecord("h1")
	updated.Category = "Other"
	c.Add(updated)

	assert.Equal(t, 1, c.Len())
	rec, _ := c.Find("h1")
	assert.Equal(t, "Other", rec.Category)
}

func TestCacheMalformedFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := LoadCache(path, nil)
	assert.Equal(t, 0, c.Len())
}

func TestCachePersistSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	c := LoadCache(path, nil)
	require.NoError(t, c.Persist())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no write without changes")

	c.Add(sampleRecord("h1"))
	require.NoError(t, c.Persist())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCacheStats(t *testing.T) {
	c := LoadCache(filepath.Join(t.TempDir(), "cache.json"), nil)
	a := sampleRecord("h1")
	b := sampleRecord("h2")
	b.ExtractedData.VendorName = "AGL"
	dup := sampleRecord("h3") // same vendor as a
	c.Add(a)
	c.Add(b)
	c.Add(dup)

	stats := c.Stats()
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 2, stats.UniqueVendors)
}

func TestCacheOnDiskFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := LoadCache(path, nil)
	c.Add(sampleRecord("h1"))
	require.NoError(t, c.Persist())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{`"FileName"`, `"FileHash"`, `"ProcessedDate"`, `"ExtractedData"`, `"Category"`, `"Deduction"`, `"vendor_name"`, `"DeductibleAmount"`} {
		assert.Contains(t, string(raw), key)
	}
}
