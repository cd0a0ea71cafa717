package printing

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	lastRequest *RenderRequest
	err         error
}

func (f *fakeRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4"), PageCount: 1}, nil
}

func (f *fakeRenderer) Close() error { return nil }

func minimalDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = io.WriteString(w, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Hello SAFE</w:t></w:r></w:p></w:body></w:document>`)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxConverter_Convert(t *testing.T) {
	fake := &fakeRenderer{}
	conv := NewDocxConverter(fake, nil)

	result, err := conv.Convert(context.Background(), minimalDocx(t), "Acme SAFE")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), result.PDFData)

	require.NotNil(t, fake.lastRequest)
	assert.Contains(t, fake.lastRequest.HTML, "Hello SAFE")
	assert.Equal(t, PaperSizeLetter, fake.lastRequest.PaperSize)
	assert.Contains(t, fake.lastRequest.FooterHTML, "Acme SAFE")
}

func TestDocxConverter_InvalidDocument(t *testing.T) {
	fake := &fakeRenderer{}
	conv := NewDocxConverter(fake, nil)

	for _, body := range [][]byte{nil, []byte("not a zip")} {
		_, err := conv.Convert(context.Background(), body, "x")
		var re *RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, ErrCodeInvalidDocument, re.Code)
	}
	assert.Nil(t, fake.lastRequest)
}

func TestDocxConverter_RendererFailure(t *testing.T) {
	renderErr := NewRenderError(ErrCodeRenderTimeout, "timed out", nil)
	conv := NewDocxConverter(&fakeRenderer{err: renderErr}, nil)

	_, err := conv.Convert(context.Background(), minimalDocx(t), "x")
	assert.True(t, errors.Is(err, renderErr))
}
