package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nathanfields/invoice-cataloger/constants"
)

// SourceDocument is the immutable identity of an input file. Hash is the
// deduplication key for the lifetime of a run and across runs.
type SourceDocument struct {
	Path string
	Name string
	Ext  string
	Size int64
	Hash string
}

const hashBlockSize = 4096

// HashFile returns the lowercase hex SHA-256 digest of the file contents,
// computed by streaming so large scans don't land in memory. The digest
// depends only on the bytes, never on filesystem metadata.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashBlockSize)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Identify stats and hashes a file, producing its SourceDocument.
func Identify(path string) (SourceDocument, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return SourceDocument{}, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return SourceDocument{}, fmt.Errorf("stat: %w", err)
	}
	sum, err := HashFile(abs)
	if err != nil {
		return SourceDocument{}, err
	}
	return SourceDocument{
		Path: abs,
		Name: filepath.Base(abs),
		Ext:  constants.NormalizeExt(filepath.Ext(abs)),
		Size: st.Size(),
		Hash: sum,
	}, nil
}
