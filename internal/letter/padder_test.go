package letter

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlankPagePDF(t *testing.T) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(blankPagePDF(500, 400)), conf)
	require.NoError(t, err)
	require.NoError(t, ctx.EnsurePageCount())
	assert.Equal(t, 1, ctx.PageCount)
}

func TestBlankPagePDFDefaultSize(t *testing.T) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(blankPagePDF(0, 0)), conf)
	require.NoError(t, err)
	require.NoError(t, ctx.EnsurePageCount())
	assert.Equal(t, 1, ctx.PageCount)
}

func TestPadder_Pad(t *testing.T) {
	tempDir := t.TempDir()
	masterPath := filepath.Join(tempDir, "master.pdf")

	// one odd letter whose last page has non-default dimensions, one even letter
	var pages []fixturePage
	pages = append(pages,
		page("4821 Date Printed: 01/02/2024", "John Smith", "Page 1 of 3"),
		page("Page 2 of 3"),
		sizedPage(500, 400, "Page 3 of 3"),
	)
	pages = append(pages, letterPages("7733 Date Printed: 01/02/2024", "Jane Doe", 2)...)
	writeFixturePDF(t, masterPath, pages)

	scanner := NewScanner(10 * 1024 * 1024)
	doc, err := scanner.ScanFile(masterPath)
	require.NoError(t, err)

	outPath := filepath.Join(tempDir, "even_page_letters.pdf")
	summary, err := NewPadder().Pad(doc, outPath)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Letters)
	assert.Equal(t, 1, summary.PaddedLetters)
	assert.Equal(t, 6, summary.Pages)
	assert.Equal(t, 6, pageCountOf(t, outPath))

	// the inserted blank page matches the odd letter's last page dimensions
	dims, err := api.PageDimsFile(outPath)
	require.NoError(t, err)
	require.Len(t, dims, 6)
	assert.InDelta(t, 500, math.Abs(dims[3].Width), 0.5)
	assert.InDelta(t, 400, math.Abs(dims[3].Height), 0.5)
}

func TestPadder_PadEvenLetterUntouched(t *testing.T) {
	tempDir := t.TempDir()
	masterPath := filepath.Join(tempDir, "master.pdf")
	writeFixturePDF(t, masterPath, letterPages("4821 Date Printed: 01/02/2024", "John Smith", 2))

	scanner := NewScanner(10 * 1024 * 1024)
	doc, err := scanner.ScanFile(masterPath)
	require.NoError(t, err)

	outPath := filepath.Join(tempDir, "padded.pdf")
	summary, err := NewPadder().Pad(doc, outPath)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Letters)
	assert.Equal(t, 0, summary.PaddedLetters)
	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 2, pageCountOf(t, outPath))
}

func TestPadder_PadSingletonLetter(t *testing.T) {
	tempDir := t.TempDir()
	masterPath := filepath.Join(tempDir, "master.pdf")
	writeFixturePDF(t, masterPath, []fixturePage{page("Page 1 of 1")})

	scanner := NewScanner(10 * 1024 * 1024)
	doc, err := scanner.ScanFile(masterPath)
	require.NoError(t, err)

	outPath := filepath.Join(tempDir, "padded.pdf")
	summary, err := NewPadder().Pad(doc, outPath)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PaddedLetters)
	assert.Equal(t, 2, pageCountOf(t, outPath))
}

func TestPadder_PadNoLetters(t *testing.T) {
	tempDir := t.TempDir()
	masterPath := filepath.Join(tempDir, "master.pdf")
	writeFixturePDF(t, masterPath, []fixturePage{page("no footers anywhere")})

	scanner := NewScanner(10 * 1024 * 1024)
	doc, err := scanner.ScanFile(masterPath)
	require.NoError(t, err)

	_, err = NewPadder().Pad(doc, filepath.Join(tempDir, "padded.pdf"))
	assert.Error(t, err)
}
