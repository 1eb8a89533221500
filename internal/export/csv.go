package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nathanfields/invoice-cataloger/internal/pipeline"
)

// WriteCSV writes the catalog as a flat CSV with the same columns as the
// workbook's Catalog sheet.
func (e *Exporter) WriteCSV(path string, entries []pipeline.CatalogEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(catalogHeaders); err != nil {
		return err
	}
	for _, entry := range entries {
		record := make([]string, 0, len(catalogHeaders))
		for _, v := range entryCells(entry) {
			record = append(record, cellString(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	e.log.Info("export.csv_ok", "path", path, "rows", len(entries))
	return nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func joinMissing(fields []string) string {
	return strings.Join(fields, ", ")
}
