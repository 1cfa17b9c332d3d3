package wrapper

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/traprange/internal/pdf/errors"
	"github.com/a3tai/traprange/internal/pdf/glyph"
	"github.com/a3tai/traprange/internal/pdf/pdftest"
)

func newTestFactory() *Factory {
	return NewFactory(DefaultMaxFileSize, zerolog.Nop())
}

func TestFactory_Open_Glyphs(t *testing.T) {
	data := pdftest.Build("", pdftest.Page{MediaBox: "[0 0 612 792]", Content: pdftest.Text(72, 700, 10, "AB")})

	doc, err := newTestFactory().Open(bytes.NewReader(data), "")
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, 1, doc.PageCount())
	assert.False(t, doc.Decrypted())

	page, err := doc.Page(0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, 612.0, page.Width)
	assert.Equal(t, 792.0, page.Height)

	glyphs := page.Glyphs()
	require.Len(t, glyphs, 2)
	assert.Equal(t, glyph.Glyph{X: 72, Y: 82, Width: 5, Height: 10, Text: "A", Page: 0}, glyphs[0])
	assert.Equal(t, glyph.Glyph{X: 77, Y: 82, Width: 5, Height: 10, Text: "B", Page: 0}, glyphs[1])
}

func TestFactory_Open_MultiplePages(t *testing.T) {
	data := pdftest.Build("[0 0 300 400]",
		pdftest.Page{Content: pdftest.Text(10, 390, 8, "one")},
		pdftest.Page{MediaBox: "[0 0 500 600]", Content: pdftest.Text(10, 590, 8, "two")},
	)

	doc, err := newTestFactory().Open(bytes.NewReader(data), "")
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount())

	first, err := doc.Page(0)
	require.NoError(t, err)
	assert.Equal(t, 300.0, first.Width, "box inherited from the page tree")
	assert.Equal(t, 400.0, first.Height)

	second, err := doc.Page(1)
	require.NoError(t, err)
	assert.Equal(t, 500.0, second.Width)

	var got strings.Builder
	for _, g := range second.Glyphs() {
		got.WriteString(g.Text)
		assert.Equal(t, 1, g.Page)
		assert.Equal(t, 2.0, g.Y)
	}
	assert.Equal(t, "two", got.String())
}

func TestFactory_Open_DefaultMediaBox(t *testing.T) {
	data := pdftest.Build("", pdftest.Page{Content: pdftest.Text(0, 0, 12, "x")})

	doc, err := newTestFactory().Open(bytes.NewReader(data), "")
	require.NoError(t, err)
	page, err := doc.Page(0)
	require.NoError(t, err)
	assert.Equal(t, LetterBox.Width(), page.Width)
	assert.Equal(t, LetterBox.Height(), page.Height)
}

func TestDocument_PageErrors(t *testing.T) {
	data := pdftest.Build("", pdftest.Page{MediaBox: "[0 0 612 792]", Content: pdftest.Text(72, 700, 10, "A")})
	doc, err := newTestFactory().Open(bytes.NewReader(data), "")
	require.NoError(t, err)

	_, err = doc.Page(1)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = doc.Page(-1)
	assert.ErrorIs(t, err, ErrInvalidPage)

	require.NoError(t, doc.Close())
	_, err = doc.Page(0)
	assert.ErrorIs(t, err, ErrDocumentClosed)
	assert.Equal(t, 0, doc.PageCount())
}

func TestFactory_Open_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not a pdf", data: []byte("hello world, this is not a document at all")},
		{name: "truncated", data: pdftest.Build("", pdftest.Page{Content: pdftest.Text(0, 0, 12, "x")})[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestFactory().Open(bytes.NewReader(tt.data), "")
			require.Error(t, err)
			assert.True(t, errors.IsInputError(err))
			var we *WrapperError
			assert.True(t, stderrors.As(err, &we))
		})
	}
}

func TestFactory_Open_TooLarge(t *testing.T) {
	data := pdftest.Build("", pdftest.Page{Content: pdftest.Text(0, 0, 12, "x")})
	f := NewFactory(int64(len(data)-1), zerolog.Nop())

	_, err := f.Open(bytes.NewReader(data), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.True(t, errors.IsInputError(err))

	f.MaxFileSize = int64(len(data))
	_, err = f.Open(bytes.NewReader(data), "")
	assert.NoError(t, err)
}

func TestFactory_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.Build("", pdftest.Page{Content: pdftest.Text(0, 0, 12, "x")}), 0o644))

	doc, err := newTestFactory().OpenFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())

	_, err = newTestFactory().OpenFile(filepath.Join(dir, "missing.pdf"), "")
	require.Error(t, err)
	var pe *errors.PDFError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, errors.ErrorTypeInput, pe.Type)
	assert.Equal(t, filepath.Join(dir, "missing.pdf"), pe.FilePath)
}

func TestFactory_Open_EncryptedNeedsPassword(t *testing.T) {
	plain := pdftest.Build("", pdftest.Page{MediaBox: "[0 0 612 792]", Content: pdftest.Text(72, 700, 10, "AB")})

	conf := model.NewDefaultConfiguration()
	conf.UserPW = "secret"
	conf.OwnerPW = "secret"
	conf.EncryptUsingAES = false
	conf.EncryptKeyLength = 128
	var encrypted bytes.Buffer
	require.NoError(t, api.Encrypt(bytes.NewReader(plain), &encrypted, conf))

	_, err := newTestFactory().Open(bytes.NewReader(encrypted.Bytes()), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidPassword)
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = newTestFactory().Open(bytes.NewReader(encrypted.Bytes()), "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidPassword)
	assert.True(t, errors.IsInputError(err))
}

func TestFactory_Inspect(t *testing.T) {
	data := pdftest.Build("[0 0 612 792]",
		pdftest.Page{Content: pdftest.Text(72, 700, 10, "A")},
		pdftest.Page{Content: pdftest.Text(72, 700, 10, "B")},
	)

	info, err := newTestFactory().Inspect(bytes.NewReader(data), "")
	require.NoError(t, err)
	assert.Equal(t, 2, info.PageCount)
	assert.False(t, info.Encrypted)

	_, err = newTestFactory().Inspect(strings.NewReader("garbage"), "")
	require.Error(t, err)
	assert.True(t, errors.IsInputError(err))
}

func TestParseRectangle(t *testing.T) {
	data := pdftest.Build("", pdftest.Page{MediaBox: "[612 792 0 0]", Content: pdftest.Text(0, 0, 12, "x")})
	doc, err := newTestFactory().Open(bytes.NewReader(data), "")
	require.NoError(t, err)
	page, err := doc.Page(0)
	require.NoError(t, err)
	assert.Equal(t, 612.0, page.Width, "inverted corners are normalized")
	assert.Equal(t, 792.0, page.Height)
}

func TestWrapperError(t *testing.T) {
	err := &WrapperError{Library: LibraryPDFCPU, Op: "decrypt", Err: ErrPasswordRequired}
	assert.Equal(t, "PDF pdfcpu library error in decrypt: password required", err.Error())
	assert.ErrorIs(t, err, ErrPasswordRequired)
}
