package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/nathanfields/invoice-cataloger/constants"
	"github.com/nathanfields/invoice-cataloger/internal/common"
)

// Chain holds an ordered list of extraction methods per file extension.
// Methods are tried in order and the first accepted result wins, so the
// cheap native readers always run before the expensive OCR tier.
type Chain struct {
	methods map[string][]Method
	log     *slog.Logger
}

// NewChain builds the fixed extension-to-methods table from config.
func NewChain(cfg common.OCRConfig, log *slog.Logger) *Chain {
	if log == nil {
		log = slog.Default()
	}
	runner := execRunner{log: log}

	pdfText := &PDFTextMethod{}
	pdfCLI := &PDFToTextMethod{cfg: cfg, runner: runner}
	pdfOCR := &PDFOCRMethod{cfg: cfg, runner: runner}
	imageOCR := &ImageOCRMethod{cfg: cfg, runner: runner}
	docx := &WordTextMethod{}
	xlsx := &SpreadsheetTextMethod{}
	eml := &EMLTextMethod{}
	msg := &MSGTextMethod{}

	table := map[string][]Method{
		"pdf":  {pdfText, pdfCLI, pdfOCR},
		"png":  {imageOCR},
		"jpg":  {imageOCR},
		"jpeg": {imageOCR},
		"gif":  {imageOCR},
		"docx": {docx},
		"doc":  {docx},
		"xlsx": {xlsx},
		"xls":  {xlsx},
		"eml":  {eml},
		"msg":  {msg},
	}
	return &Chain{methods: table, log: log}
}

// NewChainFromTable wires an explicit table; used by tests and callers
// that need custom method lists.
func NewChainFromTable(table map[string][]Method, log *slog.Logger) *Chain {
	if log == nil {
		log = slog.Default()
	}
	return &Chain{methods: table, log: log}
}

// Extract runs the method list for the file's extension. Unsupported
// extensions return immediately with no method attempted.
func (c *Chain) Extract(ctx context.Context, path string) Outcome {
	ext := constants.NormalizeExt(filepath.Ext(path))
	methods, ok := c.methods[ext]
	if !ok {
		c.log.Warn("extract.unsupported", "path", path, "ext", ext)
		return Outcome{Method: MethodNoneUnsupported}
	}

	for _, m := range methods {
		text, accepted := m.TryExtract(ctx, path)
		if !accepted {
			c.log.Debug("extract.method_rejected", "path", path, "method", m.Name())
			continue
		}
		c.log.Info("extract.ok",
			"path", path,
			"method", m.Name(),
			"chars", len(strings.TrimSpace(text)),
		)
		return Outcome{Text: text, Method: m.Name(), OK: true}
	}

	c.log.Warn("extract.exhausted", "path", path, "ext", ext, "methods", len(methods))
	return Outcome{Method: MethodNoneFailed}
}

// accept enforces the per-class minimum text length.
func accept(text string, min int) (string, bool) {
	if len(strings.TrimSpace(text)) > min {
		return text, true
	}
	return "", false
}
