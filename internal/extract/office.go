package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WordTextMethod reads paragraph text out of a .docx package
// (word/document.xml inside the zip container). Legacy binary .doc files
// are not zip containers and fall through as rejected.
type WordTextMethod struct{}

func (m *WordTextMethod) Name() string { return "docx-text" }

func (m *WordTextMethod) TryExtract(ctx context.Context, path string) (string, bool) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", false
	}
	defer zr.Close()

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", false
			}
			break
		}
	}
	if doc == nil {
		return "", false
	}
	defer doc.Close()

	text, err := wordXMLText(doc)
	if err != nil {
		return "", false
	}
	return accept(text, MinNativeChars)
}

// wordXMLText walks the WordprocessingML token stream collecting run text
// (w:t) and inserting newlines at paragraph boundaries (w:p).
func wordXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

// SpreadsheetTextMethod flattens every populated row of an .xlsx workbook
// into space-joined lines. Legacy binary .xls files are rejected.
type SpreadsheetTextMethod struct{}

func (m *SpreadsheetTextMethod) Name() string { return "xlsx-text" }

func (m *SpreadsheetTextMethod) TryExtract(ctx context.Context, path string) (string, bool) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " "))
			if line != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return accept(b.String(), MinNativeChars)
}
