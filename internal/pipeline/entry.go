package pipeline

import (
	"time"

	"github.com/nathanfields/invoice-cataloger/constants"
	"github.com/nathanfields/invoice-cataloger/internal/deduction"
	"github.com/nathanfields/invoice-cataloger/internal/document"
	"github.com/nathanfields/invoice-cataloger/internal/llm"
)

// CatalogEntry is one row of the final catalog: every file that entered
// the batch gets exactly one, whatever its outcome.
type CatalogEntry struct {
	FileName          string
	FileType          string
	FilePath          string
	OriginalPath      string
	ProcessedDateTime time.Time

	VendorName    string
	VendorABN     string
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	SubTotal      float64
	Tax           float64
	TotalAmount   float64
	Currency      string

	Category              string
	WorkUsePercentage     float64
	DeductibleAmount      float64
	ClaimMethod           string
	ClaimNotes            string
	AtoReference          string
	RequiresDocumentation string

	ProcessingStatus  constants.ProcessingStatus
	FileHash          string
	MovedTo           string
	NeedsManualReview bool
	MissingFields     []string
}

func baseEntry(doc document.SourceDocument) CatalogEntry {
	return CatalogEntry{
		FileName:          doc.Name,
		FileType:          "." + doc.Ext,
		FilePath:          doc.Path,
		OriginalPath:      doc.Path,
		ProcessedDateTime: time.Now(),
		Currency:          "AUD",
		FileHash:          doc.Hash,
	}
}

func cachedEntry(doc document.SourceDocument, data llm.InvoiceFields, category string, ded deduction.Result) CatalogEntry {
	e := successEntry(doc, doc.Path, data, category, ded, false, nil)
	e.ProcessingStatus = constants.StatusCachedDuplicate
	e.MovedTo = constants.MovedToDuplicate
	return e
}

func successEntry(doc document.SourceDocument, movedTo string, data llm.InvoiceFields, category string, ded deduction.Result, needsReview bool, missing []string) CatalogEntry {
	e := baseEntry(doc)
	e.FilePath = movedTo
	e.VendorName = data.VendorName
	e.VendorABN = data.VendorABN
	e.InvoiceNumber = data.InvoiceNumber
	e.InvoiceDate = data.InvoiceDate
	e.DueDate = data.DueDate
	e.SubTotal = data.Subtotal
	e.Tax = data.Tax
	e.TotalAmount = data.Total
	if data.Currency != "" {
		e.Currency = data.Currency
	}
	e.Category = category
	e.WorkUsePercentage = ded.WorkUsePercentage
	e.DeductibleAmount = ded.DeductibleAmount
	e.ClaimMethod = ded.ClaimMethod
	e.ClaimNotes = ded.ClaimNotes
	e.AtoReference = ded.AtoReference
	e.RequiresDocumentation = ded.RequiresDocumentation
	e.ProcessingStatus = constants.StatusSuccess
	e.MovedTo = movedTo
	e.NeedsManualReview = needsReview
	e.MissingFields = missing
	return e
}

func nonInvoiceEntry(doc document.SourceDocument, movedTo, reason string) CatalogEntry {
	e := baseEntry(doc)
	e.FilePath = movedTo
	e.VendorName = "N/A"
	e.Category = constants.NonInvoiceCategory
	e.ClaimMethod = "Not Applicable"
	e.ClaimNotes = reason
	e.AtoReference = "N/A"
	e.ProcessingStatus = constants.StatusNonInvoice
	e.MovedTo = movedTo
	return e
}

func failedEntry(doc document.SourceDocument, reason string, status constants.ProcessingStatus) CatalogEntry {
	e := baseEntry(doc)
	e.VendorName = "N/A"
	e.Category = "Non-Invoice/Other"
	e.ClaimMethod = "Not Applicable"
	e.ClaimNotes = reason
	e.AtoReference = "N/A"
	e.RequiresDocumentation = "Manual review required"
	e.ProcessingStatus = status
	e.MovedTo = constants.MovedToNotMoved
	e.NeedsManualReview = true
	return e
}
