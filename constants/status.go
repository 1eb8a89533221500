package constants

// ProcessingStatus is the terminal outcome recorded on a catalog entry.
type ProcessingStatus string

const (
	StatusSuccess          ProcessingStatus = "Success"
	StatusCachedDuplicate  ProcessingStatus = "Cached (Duplicate)"
	StatusSkippedRetries   ProcessingStatus = "Skipped (Max retries exceeded)"
	StatusFailedNoText     ProcessingStatus = "Failed (No text)"
	StatusFailedExtraction ProcessingStatus = "Failed (AI extraction)"
	StatusFailedError      ProcessingStatus = "Failed (Error)"
	StatusNonInvoice       ProcessingStatus = "Non-Invoice"
)

// MovedTo sentinels for entries whose file was never relocated.
const (
	MovedToDuplicate = "N/A - Duplicate"
	MovedToNotMoved  = "N/A - Not moved"
)
