package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "jpeg", NormalizeExt("jpeg"))
	assert.Equal(t, "msg", NormalizeExt(".msg"))
	assert.Equal(t, "", NormalizeExt(""))
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".pdf"))
	assert.Equal(t, IMAGE, MapExtToFormat("JPG"))
	assert.Equal(t, WORD, MapExtToFormat(".docx"))
	assert.Equal(t, SPREADSHEET, MapExtToFormat("xls"))
	assert.Equal(t, EMAIL, MapExtToFormat(".eml"))
	assert.Equal(t, FileFormat(""), MapExtToFormat(".zip"))
}

func TestAllowedExtensionsCoverEveryFormat(t *testing.T) {
	for ext := range AllowedExtensions {
		assert.NotEqual(t, FileFormat(""), MapExtToFormat(ext), ext)
	}
}
