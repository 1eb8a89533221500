package common

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Paths      PathsConfig
	LLM        LLMConfig
	OCR        OCRConfig
	Processing ProcessingConfig
	LogLevel   string
}

// PathsConfig holds filesystem layout configuration. The invoice folder
// for a financial year is <BasePath>/FY<FinancialYear>; processed output,
// the cache store and the failure store all live under the output folder.
type PathsConfig struct {
	BasePath      string
	FinancialYear string

	VendorOverridesPath string
	DeductionRulesPath  string
}

// LLMConfig holds structured-extraction service configuration.
type LLMConfig struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	RetryAttempts int
	RetryDelay    time.Duration

	MaxTextLen int
	MinTextLen int
}

// OCRConfig holds external OCR tool configuration.
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
}

// ProcessingConfig holds pipeline behavior knobs.
type ProcessingConfig struct {
	MaxRetryAttempts   int
	MoveProcessedFiles bool
	WorkUsePercentage  float64

	// Non-invoice heuristic: files with less extracted text than this are
	// treated as logos/signatures rather than invoices. Deliberately
	// configurable; the default matches the historical behavior.
	NonInvoiceMinTextLen int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			BasePath:            getEnv("INVOICE_BASE_PATH", "./invoices"),
			FinancialYear:       getEnv("FINANCIAL_YEAR", "2024-2025"),
			VendorOverridesPath: getEnv("VENDOR_OVERRIDES_PATH", ""),
			DeductionRulesPath:  getEnv("DEDUCTION_RULES_PATH", ""),
		},
		LLM: LLMConfig{
			Endpoint:      getEnv("LLM_ENDPOINT", "http://127.0.0.1:1234/v1"),
			Model:         getEnv("LLM_MODEL", "local-model"),
			APIKey:        getEnv("LLM_API_KEY", ""),
			Temperature:   getEnvAsFloat32("LLM_TEMPERATURE", 0.1),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 3000),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			RetryAttempts: getEnvAsInt("LLM_RETRY_ATTEMPTS", 3),
			RetryDelay:    getEnvAsDuration("LLM_RETRY_DELAY", 2*time.Second),
			MaxTextLen:    getEnvAsInt("LLM_MAX_TEXT_LEN", 10000),
			MinTextLen:    getEnvAsInt("LLM_MIN_TEXT_LEN", 10),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 3),
		},
		Processing: ProcessingConfig{
			MaxRetryAttempts:     getEnvAsInt("MAX_RETRY_ATTEMPTS", 3),
			MoveProcessedFiles:   getEnvAsBool("MOVE_PROCESSED_FILES", true),
			WorkUsePercentage:    getEnvAsFloat64("WORK_USE_PERCENTAGE", 60),
			NonInvoiceMinTextLen: getEnvAsInt("NON_INVOICE_MIN_TEXT_LEN", 50),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// InvoiceFolder is the input folder for the configured financial year.
func (c *Config) InvoiceFolder() string {
	return filepath.Join(c.Paths.BasePath, "FY"+c.Paths.FinancialYear)
}

// OutputFolder is where processed files, stores and reports land.
func (c *Config) OutputFolder() string {
	return filepath.Join(c.InvoiceFolder(), "Processed")
}

func (c *Config) CachePath() string {
	return filepath.Join(c.OutputFolder(), "cache.json")
}

func (c *Config) FailedFilesPath() string {
	return filepath.Join(c.OutputFolder(), "failed_files.json")
}

// ValidateFinancialYear checks the YYYY-YYYY consecutive-year format.
func (c *Config) ValidateFinancialYear() bool {
	parts := strings.Split(c.Paths.FinancialYear, "-")
	if len(parts) != 2 {
		return false
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	return end == start+1
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Paths.BasePath == "" {
		return NewAppError("CONFIG_ERROR", "INVOICE_BASE_PATH is required", ErrInvalidInput)
	}
	if !c.ValidateFinancialYear() {
		return NewAppError("CONFIG_ERROR", "FINANCIAL_YEAR must be consecutive years formatted YYYY-YYYY", ErrInvalidInput)
	}
	if c.LLM.Endpoint == "" {
		return NewAppError("CONFIG_ERROR", "LLM_ENDPOINT is required", ErrInvalidInput)
	}
	if p := c.Processing.WorkUsePercentage; p < 0 || p > 100 {
		return NewAppError("CONFIG_ERROR", "WORK_USE_PERCENTAGE must be within 0-100", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
