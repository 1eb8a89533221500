package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nathanfields/invoice-cataloger/constants"
)

// ScanFiles walks the invoice folder collecting every file with an
// allowed extension. The output folder is skipped so already-relocated
// files never re-enter the batch.
func (p *Processor) ScanFiles() ([]string, error) {
	root := p.cfg.InvoiceFolder()
	output := p.cfg.OutputFolder()

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			p.log.Warn("scan.walk_error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path == output {
				return filepath.SkipDir
			}
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Info("scan.done", "root", root, "files", len(files))
	return files, nil
}

// RetryFiles narrows a scan result to files with a failure record still
// under the retry ceiling.
func (p *Processor) RetryFiles(all []string) []string {
	candidates := p.failures.RetryCandidates(p.cfg.Processing.MaxRetryAttempts)
	wanted := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		wanted[c.FilePath] = struct{}{}
	}

	var files []string
	for _, f := range all {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		if _, ok := wanted[abs]; ok {
			files = append(files, f)
		}
	}
	p.log.Info("scan.retry_mode", "candidates", len(candidates), "matched", len(files))
	return files
}

// SummaryByCategory aggregates totals per category for the run report.
type CategorySummary struct {
	Category   string
	Count      int
	Total      float64
	Deductible float64
}

func SummaryByCategory(entries []CatalogEntry) []CategorySummary {
	index := make(map[string]int)
	var out []CategorySummary
	for _, e := range entries {
		if e.ProcessingStatus != constants.StatusSuccess {
			continue
		}
		cat := e.Category
		if strings.TrimSpace(cat) == "" {
			cat = constants.FallbackCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, CategorySummary{Category: cat})
		}
		out[i].Count++
		out[i].Total += e.TotalAmount
		out[i].Deductible += e.DeductibleAmount
	}
	return out
}
