package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathanfields/invoice-cataloger/constants"
	"github.com/nathanfields/invoice-cataloger/internal/categorize"
	"github.com/nathanfields/invoice-cataloger/internal/common"
	"github.com/nathanfields/invoice-cataloger/internal/deduction"
	"github.com/nathanfields/invoice-cataloger/internal/document"
	"github.com/nathanfields/invoice-cataloger/internal/extract"
	"github.com/nathanfields/invoice-cataloger/internal/llm"
	"github.com/nathanfields/invoice-cataloger/internal/store"
)

// Processor drives one file through the catalog state machine:
// hash, dedup, retry-ceiling, text extraction, structured extraction,
// categorization, deduction, relocation, cache.
type Processor struct {
	cfg         *common.Config
	extractor   extract.TextExtractor
	fields      llm.FieldExtractor
	cache       *store.ProcessingCache
	failures    *store.FailureTracker
	categorizer *categorize.Categorizer
	engine      *deduction.Engine
	log         *slog.Logger
}

func NewProcessor(
	cfg *common.Config,
	extractor extract.TextExtractor,
	fields llm.FieldExtractor,
	cache *store.ProcessingCache,
	failures *store.FailureTracker,
	categorizer *categorize.Categorizer,
	engine *deduction.Engine,
	log *slog.Logger,
) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		cfg:         cfg,
		extractor:   extractor,
		fields:      fields,
		cache:       cache,
		failures:    failures,
		categorizer: categorizer,
		engine:      engine,
		log:         log,
	}
}

// ProcessFile runs the state machine for one file. Every outcome is a
// CatalogEntry; an error is returned only when the file could not even be
// identified (unreadable, vanished mid-batch).
func (p *Processor) ProcessFile(ctx context.Context, path string, reprocess bool) (CatalogEntry, error) {
	doc, err := document.Identify(path)
	if err != nil {
		p.log.Error("process.identify_failed", "path", path, "error", err)
		return CatalogEntry{}, err
	}
	log := p.log.With("file", doc.Name, "hash", doc.Hash[:12])

	// Content-hash dedup. Renamed copies of an already-processed invoice
	// hit here; reprocess mode bypasses deliberately.
	if !reprocess {
		if rec, ok := p.cache.Find(doc.Hash); ok {
			log.Warn("process.duplicate", "original", rec.FileName, "processed", rec.ProcessedDate)
			return cachedEntry(doc, rec.ExtractedData, rec.Category, rec.Deduction), nil
		}
	}

	// Retry ceiling: a file that keeps failing stops consuming LLM calls.
	if p.failures.Exhausted(doc.Path, p.cfg.Processing.MaxRetryAttempts) {
		log.Warn("process.retry_exhausted", "attempts", p.failures.AttemptCount(doc.Path))
		return failedEntry(doc, "Skipped - Too many failures", constants.StatusSkippedRetries), nil
	}

	entry, procErr := p.processGuarded(ctx, doc, log)
	if procErr != nil {
		log.Error("process.error", "error", procErr)
		p.failures.AddFailure(doc.Path, doc.Name, fmt.Sprintf("Processing error: %v", procErr))
		return failedEntry(doc, fmt.Sprintf("Processing error: %v", procErr), constants.StatusFailedError), nil
	}
	return entry, nil
}

// processGuarded contains panics from third-party parsers (a malformed
// workbook or archive can blow up deep inside a reader) and maps them to
// the generic failure branch, so one poisoned file never aborts the batch.
func (p *Processor) processGuarded(ctx context.Context, doc document.SourceDocument, log *slog.Logger) (entry CatalogEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.processContent(ctx, doc, log)
}

func (p *Processor) processContent(ctx context.Context, doc document.SourceDocument, log *slog.Logger) (CatalogEntry, error) {
	outcome := p.extractor.Extract(ctx, doc.Path)
	if !outcome.OK || len(strings.TrimSpace(outcome.Text)) < p.cfg.LLM.MinTextLen {
		log.Warn("process.no_text", "method", outcome.Method)
		p.failures.AddFailure(doc.Path, doc.Name, fmt.Sprintf("No text content extracted (%s)", outcome.Method))
		return failedEntry(doc, "No text content extracted", constants.StatusFailedNoText), nil
	}
	text := outcome.Text
	log.Debug("process.text_extracted", "method", outcome.Method, "chars", len(text))

	// Tiny text means a logo or a signature image, not an invoice.
	// Borderline lengths get a warning so threshold tuning has an audit trail.
	textLen := len(strings.TrimSpace(text))
	floor := p.cfg.Processing.NonInvoiceMinTextLen
	if textLen >= floor && textLen < floor+floor/5 {
		log.Warn("process.borderline_text", "chars", textLen, "floor", floor)
	}
	if textLen < floor {
		reason := "Too little text content (likely logo/signature)"
		log.Warn("process.non_invoice", "reason", reason)
		moved := p.moveNonInvoice(doc.Path)
		return nonInvoiceEntry(doc, moved, reason), nil
	}

	data, err := p.fields.ExtractFields(ctx, text, doc.Name)
	if err != nil || data == nil {
		if err != nil {
			log.Warn("process.llm_failed", "error", err)
		}
		p.failures.AddFailure(doc.Path, doc.Name, "AI extraction failed")
		return failedEntry(doc, "AI extraction failed", constants.StatusFailedExtraction), nil
	}

	// The model answered but found neither a vendor nor an amount: treat
	// as non-invoice rather than a half-empty catalog row.
	if strings.TrimSpace(data.VendorName) == "" && data.Total == 0.0 {
		reason := "No vendor name and no amount (likely non-invoice image)"
		log.Warn("process.non_invoice", "reason", reason)
		moved := p.moveNonInvoice(doc.Path)
		return nonInvoiceEntry(doc, moved, reason), nil
	}

	needsReview, missing := CheckMissingFields(data)
	if needsReview {
		log.Warn("process.needs_review", "missing", missing)
	}

	category := p.categorizer.Categorize(data.VendorName, data.Description, data.LineItemDescriptions())
	ded := p.engine.Calculate(data.Total, category, p.cfg.Processing.WorkUsePercentage)

	moved := p.moveProcessed(doc.Path, category, data.InvoiceDate)

	p.cache.Add(store.CacheRecord{
		FileName:      doc.Name,
		FileHash:      doc.Hash,
		ExtractedData: *data,
		Category:      category,
		Deduction:     ded,
	})
	if _, wasFailing := p.failures.Find(doc.Path); wasFailing {
		p.failures.RemoveFailure(doc.Path)
		log.Info("process.failure_cleared")
	}

	log.Info("process.ok", "vendor", data.VendorName, "category", category, "total", data.Total)
	return successEntry(doc, moved, *data, category, ded, needsReview, missing), nil
}

// CheckMissingFields flags entries that need a human look. Vendor name,
// invoice date and a non-zero total are critical; a missing invoice
// number is noted but never forces review on its own.
func CheckMissingFields(data *llm.InvoiceFields) (bool, []string) {
	var missing []string
	if strings.TrimSpace(data.VendorName) == "" {
		missing = append(missing, "Vendor Name")
	}
	if strings.TrimSpace(data.InvoiceDate) == "" {
		missing = append(missing, "Invoice Date")
	}
	if data.Total == 0.0 {
		missing = append(missing, "Total Amount")
	}
	if strings.TrimSpace(data.InvoiceNumber) == "" {
		missing = append(missing, "Invoice Number (bonus)")
	}

	needsReview := false
	for _, f := range missing {
		if !strings.Contains(f, "(bonus)") {
			needsReview = true
			break
		}
	}
	return needsReview, missing
}

// Stats summarizes one batch run by terminal status.
type Stats struct {
	Total      int
	Success    int
	Cached     int
	Skipped    int
	Failed     int
	NonInvoice int
}

// ProcessAll runs the batch and persists both stores afterwards even when
// individual files error out.
func (p *Processor) ProcessAll(ctx context.Context, files []string, reprocess bool) ([]CatalogEntry, Stats, error) {
	entries := make([]CatalogEntry, 0, len(files))
	var stats Stats

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			break
		}
		p.log.Info("batch.file", "index", i+1, "total", len(files), "path", path)

		entry, err := p.ProcessFile(ctx, path, reprocess)
		if err != nil {
			stats.Failed++
			stats.Total++
			continue
		}
		entries = append(entries, entry)
		stats.Total++
		switch entry.ProcessingStatus {
		case constants.StatusSuccess:
			stats.Success++
		case constants.StatusCachedDuplicate:
			stats.Cached++
		case constants.StatusSkippedRetries:
			stats.Skipped++
		case constants.StatusNonInvoice:
			stats.NonInvoice++
		default:
			stats.Failed++
		}
	}

	if err := p.cache.Persist(); err != nil {
		return entries, stats, err
	}
	if err := p.failures.Persist(); err != nil {
		return entries, stats, err
	}

	p.log.Info("batch.done",
		"total", stats.Total,
		"success", stats.Success,
		"cached", stats.Cached,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"non_invoice", stats.NonInvoice,
	)
	return entries, stats, nil
}
