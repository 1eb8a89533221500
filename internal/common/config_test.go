package common

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "./invoices", cfg.Paths.BasePath)
	assert.Equal(t, "2024-2025", cfg.Paths.FinancialYear)
	assert.Equal(t, 3, cfg.LLM.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.LLM.RetryDelay)
	assert.Equal(t, 10000, cfg.LLM.MaxTextLen)
	assert.Equal(t, 10, cfg.LLM.MinTextLen)
	assert.Equal(t, 3, cfg.Processing.MaxRetryAttempts)
	assert.Equal(t, 60.0, cfg.Processing.WorkUsePercentage)
	assert.Equal(t, 50, cfg.Processing.NonInvoiceMinTextLen)
	assert.True(t, cfg.Processing.MoveProcessedFiles)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("INVOICE_BASE_PATH", "/data/invoices")
	t.Setenv("FINANCIAL_YEAR", "2023-2024")
	t.Setenv("LLM_RETRY_DELAY", "500ms")
	t.Setenv("WORK_USE_PERCENTAGE", "80")
	t.Setenv("MOVE_PROCESSED_FILES", "false")

	cfg := LoadConfig()
	assert.Equal(t, "/data/invoices", cfg.Paths.BasePath)
	assert.Equal(t, "2023-2024", cfg.Paths.FinancialYear)
	assert.Equal(t, 500*time.Millisecond, cfg.LLM.RetryDelay)
	assert.Equal(t, 80.0, cfg.Processing.WorkUsePercentage)
	assert.False(t, cfg.Processing.MoveProcessedFiles)
}

func TestLoadConfigIgnoresUnparseableEnv(t *testing.T) {
	t.Setenv("MAX_RETRY_ATTEMPTS", "many")
	cfg := LoadConfig()
	assert.Equal(t, 3, cfg.Processing.MaxRetryAttempts)
}

func TestDerivedPaths(t *testing.T) {
	cfg := LoadConfig()
	cfg.Paths.BasePath = "/data"
	cfg.Paths.FinancialYear = "2024-2025"

	assert.Equal(t, filepath.Join("/data", "FY2024-2025"), cfg.InvoiceFolder())
	assert.Equal(t, filepath.Join("/data", "FY2024-2025", "Processed"), cfg.OutputFolder())
	assert.Equal(t, filepath.Join(cfg.OutputFolder(), "cache.json"), cfg.CachePath())
	assert.Equal(t, filepath.Join(cfg.OutputFolder(), "failed_files.json"), cfg.FailedFilesPath())
}

func TestValidateFinancialYear(t *testing.T) {
	cfg := LoadConfig()

	for year, want := range map[string]bool{
		"2024-2025": true,
		"1999-2000": true,
		"2024-2026": false,
		"2025-2024": false,
		"2024":      false,
		"24-25":     false,
		"abcd-efgh": false,
	} {
		cfg.Paths.FinancialYear = year
		assert.Equal(t, want, cfg.ValidateFinancialYear(), year)
	}
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	cfg.Processing.WorkUsePercentage = 150
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Paths.FinancialYear = "nope"
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.LLM.Endpoint = ""
	assert.Error(t, cfg.Validate())
}

func TestAppError(t *testing.T) {
	err := NewAppError("CONFIG_ERROR", "bad year", ErrInvalidInput)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "CONFIG_ERROR")
	assert.Contains(t, err.Error(), "bad year")
}
