package extract

import (
	"context"
	"fmt"

	"github.com/nathanfields/invoice-cataloger/internal/common"
)

// ImageOCRMethod runs tesseract directly on an image file.
type ImageOCRMethod struct {
	cfg    common.OCRConfig
	runner Runner
}

func (m *ImageOCRMethod) Name() string { return "image-ocr" }

func (m *ImageOCRMethod) TryExtract(ctx context.Context, path string) (string, bool) {
	txt, err := tesseractOCR(ctx, m.runner, m.cfg, path)
	if err != nil {
		return "", false
	}
	return accept(txt, MinOCRChars)
}

// tesseract <file> stdout -l <lang>
func tesseractOCR(ctx context.Context, runner Runner, cfg common.OCRConfig, path string) (string, error) {
	args := []string{path, "stdout", "-l", cfg.TesseractLang}
	out, _, err := runner.Run(ctx, cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}
