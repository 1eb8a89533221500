package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nathanfields/invoice-cataloger/internal/common"
	"github.com/nathanfields/invoice-cataloger/internal/extract"
)

// Debug tool: run the extraction chain on one file and print what the
// pipeline would see.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: extract <file>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	log := common.NewJSONLogger(cfg.LogLevel)

	chain := extract.NewChain(cfg.OCR, log)
	outcome := chain.Extract(context.Background(), os.Args[1])
	if !outcome.OK {
		fmt.Fprintf(os.Stderr, "extraction failed: %s\n", outcome.Method)
		os.Exit(1)
	}

	fmt.Printf("method: %s\nchars: %d\n---\n%s\n", outcome.Method, len(outcome.Text), outcome.Text)
}
