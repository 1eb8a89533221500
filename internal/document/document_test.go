package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.pdf")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	sum, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sum)
}

func TestHashFileDependsOnlyOnContents(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "renamed copy.pdf")
	require.NoError(t, os.WriteFile(a, []byte("same bytes"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same bytes"), 0o600))

	sumA, err := HashFile(a)
	require.NoError(t, err)
	sumB, err := HashFile(b)
	require.NoError(t, err)
	assert.Equal(t, sumA, sumB)
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestIdentify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Invoice_March.PDF")
	require.NoError(t, os.WriteFile(path, []byte("pdf bytes"), 0o644))

	doc, err := Identify(path)
	require.NoError(t, err)
	assert.Equal(t, "Invoice_March.PDF", doc.Name)
	assert.Equal(t, "pdf", doc.Ext)
	assert.Equal(t, int64(9), doc.Size)
	assert.Len(t, doc.Hash, 64)
	assert.True(t, filepath.IsAbs(doc.Path))
}
