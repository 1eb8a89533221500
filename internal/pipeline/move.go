package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nathanfields/invoice-cataloger/constants"
)

// moveProcessed relocates a processed file to
// <output>/<Category>/<YYYY-MM>/. Relocation is best-effort: any failure
// leaves the file where it is and returns the original path, because a
// cataloged invoice is worth more than a tidy folder tree.
func (p *Processor) moveProcessed(path, category, invoiceDate string) string {
	if !p.cfg.Processing.MoveProcessedFiles {
		return path
	}

	destFolder := filepath.Join(p.cfg.OutputFolder(), category, yearMonthFolder(invoiceDate))
	return p.moveInto(path, destFolder)
}

// yearMonthFolder derives the YYYY-MM subfolder from an invoice date.
// Anything that is not a parseable ISO prefix (the model sometimes answers
// with locale dates like "15/01/2025") lands in "Unknown" rather than
// producing a folder name with separators in it.
func yearMonthFolder(invoiceDate string) string {
	if len(invoiceDate) < 7 {
		return "Unknown"
	}
	ym := invoiceDate[:7]
	if _, err := time.Parse("2006-01", ym); err != nil {
		return "Unknown"
	}
	return ym
}

// moveNonInvoice relocates a rejected file to the Non-Invoice holding
// folder so reruns don't keep re-examining it.
func (p *Processor) moveNonInvoice(path string) string {
	destFolder := filepath.Join(p.cfg.OutputFolder(), constants.NonInvoiceFolder)
	return p.moveInto(path, destFolder)
}

func (p *Processor) moveInto(path, destFolder string) string {
	if err := os.MkdirAll(destFolder, 0o755); err != nil {
		p.log.Error("move.mkdir_failed", "dest", destFolder, "error", err)
		return path
	}

	name := filepath.Base(path)
	dest := filepath.Join(destFolder, name)

	// Same name already there: suffix _1, _2, ... before the extension.
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(destFolder, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		p.log.Error("move.rename_failed", "src", path, "dest", dest, "error", err)
		return path
	}
	p.log.Info("move.ok", "src", path, "dest", dest)
	return dest
}
