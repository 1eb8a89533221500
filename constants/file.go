package constants

import "strings"

// FileFormat classifies a source document by how its text is extracted.
type FileFormat string

const (
	PDF         FileFormat = "PDF"
	IMAGE       FileFormat = "IMAGE"
	WORD        FileFormat = "WORD"
	SPREADSHEET FileFormat = "SPREADSHEET"
	EMAIL       FileFormat = "EMAIL"
)

// AllowedExtensions holds the file extensions the pipeline will process.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"doc":  {},
	"docx": {},
	"xls":  {},
	"xlsx": {},
	"eml":  {},
	"msg":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps an extension to its format class.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "gif":
		return IMAGE
	case "doc", "docx":
		return WORD
	case "xls", "xlsx":
		return SPREADSHEET
	case "eml", "msg":
		return EMAIL
	default:
		return ""
	}
}
