package extract

import "context"

// Method is one extraction technique for one file-type class. TryExtract
// wraps its own failures: it returns ok=false instead of erroring, so a
// rejected method never stops the chain from falling through to the next.
type Method interface {
	Name() string
	TryExtract(ctx context.Context, path string) (string, bool)
}

// Outcome is the result of running the extraction chain on one file.
// Method names the technique that produced the text, or a diagnostic
// label when no text was produced.
type Outcome struct {
	Text   string
	Method string
	OK     bool
}

// Chain method-rejection labels.
const (
	MethodNoneFailed      = "all extraction methods failed"
	MethodNoneUnsupported = "unsupported file type"
)

// TextExtractor is what the pipeline depends on; *Chain implements it.
type TextExtractor interface {
	Extract(ctx context.Context, path string) Outcome
}

// Minimum accepted text lengths per method class. Native document readers
// are held to a higher floor than OCR and email parsing, which produce
// sparser but still usable text.
const (
	MinNativeChars = 50
	MinOCRChars    = 20
	MinEmailChars  = 20
)
