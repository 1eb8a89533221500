package export

import (
	"fmt"
	"io"

	"github.com/nathanfields/invoice-cataloger/internal/pipeline"
)

// WriteSummary prints the human-readable run report: batch counts,
// per-category totals and the rows flagged for manual review.
func (e *Exporter) WriteSummary(w io.Writer, entries []pipeline.CatalogEntry, stats pipeline.Stats) {
	fmt.Fprintf(w, "\nProcessing summary\n")
	fmt.Fprintf(w, "  Files processed : %d\n", stats.Total)
	fmt.Fprintf(w, "  Success         : %d\n", stats.Success)
	fmt.Fprintf(w, "  Cached duplicate: %d\n", stats.Cached)
	fmt.Fprintf(w, "  Non-invoice     : %d\n", stats.NonInvoice)
	fmt.Fprintf(w, "  Skipped (retry) : %d\n", stats.Skipped)
	fmt.Fprintf(w, "  Failed          : %d\n", stats.Failed)

	summaries := pipeline.SummaryByCategory(entries)
	if len(summaries) > 0 {
		fmt.Fprintf(w, "\nBy category\n")
		var total, deductible float64
		for _, s := range summaries {
			fmt.Fprintf(w, "  %-28s %3d invoices  $%10.2f total  $%10.2f deductible\n",
				s.Category, s.Count, s.Total, s.Deductible)
			total += s.Total
			deductible += s.Deductible
		}
		fmt.Fprintf(w, "  %-28s %14s $%10.2f total  $%10.2f deductible\n", "TOTAL", "", total, deductible)
	}

	var review int
	for _, entry := range entries {
		if entry.NeedsManualReview {
			review++
		}
	}
	if review > 0 {
		fmt.Fprintf(w, "\nNeeds manual review (%d)\n", review)
		for _, entry := range entries {
			if !entry.NeedsManualReview {
				continue
			}
			fmt.Fprintf(w, "  %s [%s] missing: %s\n", entry.FileName, entry.ProcessingStatus, joinMissing(entry.MissingFields))
		}
	}
}
