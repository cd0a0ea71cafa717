package investment

import (
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderedDocument_Immutable(t *testing.T) {
	src := []byte("docx-bytes")
	doc := NewRenderedDocument(src, VariantDiscount, "Acme")

	src[0] = 'X'
	assert.Equal(t, "docx-bytes", string(doc.Bytes()))

	out := doc.Bytes()
	out[0] = 'Y'
	assert.Equal(t, "docx-bytes", string(doc.Bytes()))
}

func TestRenderedDocument_Encodings(t *testing.T) {
	doc := NewRenderedDocument([]byte("abc"), VariantValuationCap, " Acme ")

	decoded, err := base64.StdEncoding.DecodeString(doc.Base64())
	require.NoError(t, err)
	assert.Equal(t, "abc", string(decoded))

	read, err := io.ReadAll(doc.Reader())
	require.NoError(t, err)
	assert.Equal(t, "abc", string(read))
	assert.Equal(t, 3, doc.Size())
	assert.Equal(t, DocxContentType, doc.ContentType())
}

func TestRenderedDocument_Filenames(t *testing.T) {
	doc := NewRenderedDocument(nil, VariantDiscount, "Acme")
	assert.Equal(t, "YC-SAFE-Discount.docx", doc.DownloadFilename())
	assert.Equal(t, "Acme-SAFE.docx", doc.AttachmentFilename())

	doc = NewRenderedDocument(nil, VariantValuationCap, "Acme")
	assert.Equal(t, "YC-SAFE-Valuation-Cap.docx", doc.DownloadFilename())
}

func TestAttachmentFilename(t *testing.T) {
	assert.Equal(t, "Acme Inc.-SAFE.docx", AttachmentFilename("Acme Inc."))
	assert.Equal(t, "AcmeLabs-SAFE.docx", AttachmentFilename("Acme/Labs"))
	assert.Equal(t, "Company-SAFE.docx", AttachmentFilename("  "))
}
