package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainEML = `From: billing@telstra.com
To: nathan@example.com
Subject: Tax Invoice INV-100
Date: Wed, 15 Jan 2025 10:00:00 +1000
Content-Type: text/plain

Your Telstra bill for January is $89.00, due 2025-02-01.
`

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestEMLPlainBody(t *testing.T) {
	m := &EMLTextMethod{}
	text, ok := m.TryExtract(context.Background(), writeTemp(t, "bill.eml", plainEML))
	require.True(t, ok)

	assert.Contains(t, text, "From: billing@telstra.com")
	assert.Contains(t, text, "Subject: Tax Invoice INV-100")
	assert.Contains(t, text, "$89.00")
}

func TestEMLMultipartPrefersPlainAndListsAttachments(t *testing.T) {
	eml := strings.Join([]string{
		"From: ap@vendor.com",
		"Subject: Invoice attached",
		`Content-Type: multipart/mixed; boundary="BOUND"`,
		"",
		"--BOUND",
		"Content-Type: text/html",
		"",
		"<html><b>ignore me when plain exists</b></html>",
		"--BOUND",
		"Content-Type: text/plain",
		"",
		"Please find invoice INV-7 attached, total $150.00.",
		"--BOUND",
		`Content-Type: application/pdf; name="invoice_7.pdf"`,
		`Content-Disposition: attachment; filename="invoice_7.pdf"`,
		"",
		"%PDF-fake",
		"--BOUND--",
		"",
	}, "\r\n")

	m := &EMLTextMethod{}
	text, ok := m.TryExtract(context.Background(), writeTemp(t, "multi.eml", eml))
	require.True(t, ok)

	assert.Contains(t, text, "invoice INV-7")
	assert.NotContains(t, text, "ignore me")
	assert.Contains(t, text, "- invoice_7.pdf")
}

func TestEMLBase64Body(t *testing.T) {
	// "Invoice total $42.00 from ACME Pty Ltd, thanks." base64-encoded
	eml := strings.Join([]string{
		"From: ap@acme.com",
		"Subject: Invoice",
		"Content-Type: text/plain",
		"Content-Transfer-Encoding: base64",
		"",
		"SW52b2ljZSB0b3RhbCAkNDIuMDAgZnJvbSBBQ01FIFB0eSBMdGQsIHRoYW5rcy4=",
		"",
	}, "\r\n")

	m := &EMLTextMethod{}
	text, ok := m.TryExtract(context.Background(), writeTemp(t, "b64.eml", eml))
	require.True(t, ok)
	assert.Contains(t, text, "Invoice total $42.00")
}

func TestEMLRejectsGarbage(t *testing.T) {
	m := &EMLTextMethod{}
	_, ok := m.TryExtract(context.Background(), writeTemp(t, "bad.eml", "\x00\x01\x02"))
	assert.False(t, ok)
}

func TestMSGRejectsNonOLE(t *testing.T) {
	m := &MSGTextMethod{}
	_, ok := m.TryExtract(context.Background(), writeTemp(t, "fake.msg", "not an ole compound file"))
	assert.False(t, ok)
}

func TestDecodeUTF16LE(t *testing.T) {
	raw := []byte{'I', 0, 'n', 0, 'v', 0, 'o', 0, 'i', 0, 'c', 0, 'e', 0}
	assert.Equal(t, "Invoice", decodeUTF16LE(raw))
	assert.Equal(t, "", decodeUTF16LE([]byte{0x41}))
}
