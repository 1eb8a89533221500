package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nathanfields/invoice-cataloger/internal/common"
)

// PDFTextMethod reads the embedded text layer of a native PDF. Cheap and
// exact; rejected for scanned PDFs whose text layer is empty or trivial.
type PDFTextMethod struct{}

func (m *PDFTextMethod) Name() string { return "pdf-text" }

func (m *PDFTextMethod) TryExtract(ctx context.Context, path string) (text string, ok bool) {
	// The pdf package panics on some malformed files; contain it here so
	// the chain can fall through to OCR.
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", false
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", false
	}
	return accept(string(raw), MinNativeChars)
}

// PDFToTextMethod shells out to poppler's pdftotext, which handles some
// encodings the native reader does not.
type PDFToTextMethod struct {
	cfg    common.OCRConfig
	runner Runner
}

func (m *PDFToTextMethod) Name() string { return "pdftotext" }

func (m *PDFToTextMethod) TryExtract(ctx context.Context, path string) (string, bool) {
	// pdftotext -layout <in.pdf> - (stdout)
	out, _, err := m.runner.Run(ctx, m.cfg.Pdftotext, "-layout", path, "-")
	if err != nil {
		return "", false
	}
	return accept(string(out), MinNativeChars)
}

// PDFOCRMethod rasterizes the first pages with pdftoppm and runs
// tesseract over each. Last resort for scanned PDFs.
type PDFOCRMethod struct {
	cfg    common.OCRConfig
	runner Runner
}

func (m *PDFOCRMethod) Name() string { return "pdf-ocr" }

func (m *PDFOCRMethod) TryExtract(ctx context.Context, path string) (string, bool) {
	tmpDir, err := os.MkdirTemp("", "ic-pp-*")
	if err != nil {
		return "", false
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	args := []string{"-r", fmt.Sprintf("%d", m.cfg.DPI), "-png"}
	if m.cfg.MaxPages > 0 {
		args = append(args, "-f", "1", "-l", fmt.Sprintf("%d", m.cfg.MaxPages))
	}
	args = append(args, path, prefix)
	if _, _, err := m.runner.Run(ctx, m.cfg.Pdftoppm, args...); err != nil {
		return "", false
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", false
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := tesseractOCR(ctx, m.runner, m.cfg, img)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
	}
	return accept(b.String(), MinOCRChars)
}
