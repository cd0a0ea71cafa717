package investment

import (
	"bytes"
	"encoding/base64"
	"io"
	"regexp"
	"strings"
)

// DocxContentType is the MIME type of generated SAFE documents
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// RenderedDocument is the immutable output of one render. The bytes are copied in
// and never exposed for writing.
type RenderedDocument struct {
	content     []byte
	variant     Variant
	companyName string
}

// NewRenderedDocument copies content into a new document
func NewRenderedDocument(content []byte, variant Variant, companyName string) *RenderedDocument {
	return &RenderedDocument{
		content:     bytes.Clone(content),
		variant:     variant,
		companyName: strings.TrimSpace(companyName),
	}
}

// Bytes returns a copy of the document bytes
func (d *RenderedDocument) Bytes() []byte {
	return bytes.Clone(d.content)
}

// Reader streams the document bytes
func (d *RenderedDocument) Reader() io.Reader {
	return bytes.NewReader(d.content)
}

// Size is the document length in bytes
func (d *RenderedDocument) Size() int {
	return len(d.content)
}

// Base64 encodes the document for JSON transports
func (d *RenderedDocument) Base64() string {
	return base64.StdEncoding.EncodeToString(d.content)
}

// Variant returns the SAFE variant the document was rendered from
func (d *RenderedDocument) Variant() Variant {
	return d.variant
}

// CompanyName returns the issuer name the document was rendered for
func (d *RenderedDocument) CompanyName() string {
	return d.companyName
}

// ContentType returns the document MIME type
func (d *RenderedDocument) ContentType() string {
	return DocxContentType
}

// DownloadFilename is the name offered on direct download, e.g. "YC-SAFE-Discount.docx"
func (d *RenderedDocument) DownloadFilename() string {
	return "YC-SAFE-" + d.variant.DisplayName() + ".docx"
}

// AttachmentFilename is the name used when emailing, e.g. "Acme-SAFE.docx"
func (d *RenderedDocument) AttachmentFilename() string {
	return AttachmentFilename(d.companyName)
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// AttachmentFilename derives the email attachment name from a company name
func AttachmentFilename(companyName string) string {
	name := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(companyName, ""))
	if name == "" {
		name = "Company"
	}
	return name + "-SAFE.docx"
}
