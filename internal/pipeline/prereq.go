package pipeline

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/nathanfields/invoice-cataloger/internal/common"
)

// Pinger is the connectivity probe the prerequisite check runs against
// the extraction endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckPrerequisites validates the environment before a batch run:
// config shape, folders, OCR binaries on PATH, endpoint reachability.
// Every check runs so the operator sees all problems at once.
func CheckPrerequisites(ctx context.Context, cfg *common.Config, pinger Pinger, log *slog.Logger) bool {
	if log == nil {
		log = slog.Default()
	}
	ok := true

	if err := cfg.Validate(); err != nil {
		log.Error("prereq.config_invalid", "error", err)
		ok = false
	}

	if st, err := os.Stat(cfg.InvoiceFolder()); err != nil || !st.IsDir() {
		log.Error("prereq.invoice_folder_missing", "path", cfg.InvoiceFolder())
		ok = false
	} else {
		log.Info("prereq.invoice_folder_ok", "path", cfg.InvoiceFolder())
	}

	if err := os.MkdirAll(cfg.OutputFolder(), 0o755); err != nil {
		log.Error("prereq.output_folder_failed", "path", cfg.OutputFolder(), "error", err)
		ok = false
	}

	// OCR binaries are only needed for scanned documents; missing ones are
	// warnings, not failures.
	for _, bin := range []string{cfg.OCR.Pdftotext, cfg.OCR.Pdftoppm, cfg.OCR.Tesseract} {
		if _, err := exec.LookPath(bin); err != nil {
			log.Warn("prereq.ocr_binary_missing", "binary", bin)
		}
	}

	if pinger != nil {
		if err := pinger.Ping(ctx); err != nil {
			log.Error("prereq.llm_unreachable", "endpoint", cfg.LLM.Endpoint, "error", err)
			ok = false
		} else {
			log.Info("prereq.llm_ok", "endpoint", cfg.LLM.Endpoint)
		}
	}

	return ok
}
