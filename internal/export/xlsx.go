package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nathanfields/invoice-cataloger/internal/pipeline"
)

// Exporter writes batch results as report files in the output folder.
type Exporter struct {
	log *slog.Logger
}

func NewExporter(log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{log: log}
}

var catalogHeaders = []string{
	"File Name",
	"File Type",
	"Processed Date",
	"Vendor Name",
	"Vendor ABN",
	"Invoice Number",
	"Invoice Date",
	"Due Date",
	"Subtotal",
	"Tax",
	"Total Amount",
	"Currency",
	"Category",
	"Work Use %",
	"Deductible Amount",
	"Claim Method",
	"Claim Notes",
	"ATO Reference",
	"Processing Status",
	"Moved To",
	"Needs Manual Review",
	"Missing Fields",
}

// WriteXLSX writes the full catalog as a workbook with a Catalog sheet
// and a per-category Summary sheet.
func (e *Exporter) WriteXLSX(path string, entries []pipeline.CatalogEntry) error {
	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range catalogHeaders {
		write(sheet, i+1, 1, h)
	}
	for i, entry := range entries {
		row := i + 2
		for col, v := range entryCells(entry) {
			write(sheet, col+1, row, v)
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	for i, h := range []string{"Category", "Invoices", "Total Amount", "Deductible Amount"} {
		write(summary, i+1, 1, h)
	}
	for i, s := range pipeline.SummaryByCategory(entries) {
		row := i + 2
		write(summary, 1, row, s.Category)
		write(summary, 2, row, s.Count)
		write(summary, 3, row, s.Total)
		write(summary, 4, row, s.Deductible)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	e.log.Info("export.xlsx_ok", "path", path, "rows", len(entries), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

func entryCells(e pipeline.CatalogEntry) []any {
	return []any{
		e.FileName,
		e.FileType,
		e.ProcessedDateTime.Format("2006-01-02 15:04:05"),
		e.VendorName,
		e.VendorABN,
		e.InvoiceNumber,
		e.InvoiceDate,
		e.DueDate,
		e.SubTotal,
		e.Tax,
		e.TotalAmount,
		e.Currency,
		e.Category,
		e.WorkUsePercentage,
		e.DeductibleAmount,
		e.ClaimMethod,
		e.ClaimNotes,
		e.AtoReference,
		string(e.ProcessingStatus),
		e.MovedTo,
		e.NeedsManualReview,
		joinMissing(e.MissingFields),
	}
}
