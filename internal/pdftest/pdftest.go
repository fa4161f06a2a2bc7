// Package pdftest generates small but complete PDF documents for tests.
// Each page renders one text line per Tj operation so text extraction
// reproduces the input lines exactly.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// Page describes one page of a generated PDF: its text lines (top to
// bottom) and physical dimensions.
type Page struct {
	Lines  []string
	Width  float64
	Height float64
}

// NewPage returns a US Letter sized page with the given text lines.
func NewPage(lines ...string) Page {
	return Page{Lines: lines, Width: 612, Height: 792}
}

// SizedPage returns a page with explicit dimensions.
func SizedPage(width, height float64, lines ...string) Page {
	return Page{Lines: lines, Width: width, Height: height}
}

// LetterPages builds the pages of a well-formed letter: the first page
// carries the envelope header lines, every page carries a footer marker.
func LetterPages(envelopeLine, salutation string, pageCount int) []Page {
	pages := make([]Page, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		var lines []string
		if i == 1 {
			lines = append(lines, envelopeLine, salutation)
		}
		lines = append(lines, "Dear resident, please find your statement enclosed.")
		lines = append(lines, fmt.Sprintf("Page %d of %d", i, pageCount))
		pages = append(pages, NewPage(lines...))
	}
	return pages
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// WriteFile generates a PDF from the pages and writes it to path.
func WriteFile(tb testing.TB, path string, pages []Page) {
	tb.Helper()
	if err := os.WriteFile(path, Build(pages), 0o644); err != nil {
		tb.Fatalf("Failed to write fixture PDF %s: %v", path, err)
	}
}

// Build assembles a complete PDF document from the pages.
func Build(pages []Page) []byte {
	numObjs := 3 + 2*len(pages)
	objects := make([]string, 0, numObjs)

	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	objects = append(objects,
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
			strings.Join(kids, " "), len(pages)),
		fmt.Sprintf("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica "+
			"/FirstChar 32 /LastChar 126 /Widths [%s] >>\nendobj\n",
			strings.TrimSpace(strings.Repeat("500 ", 95))),
	)

	for i, pg := range pages {
		pageObj := 4 + 2*i
		contentObj := 5 + 2*i

		var stream strings.Builder
		stream.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
		for j, line := range pg.Lines {
			if j > 0 {
				stream.WriteString("0 -24 Td\n")
			}
			fmt.Fprintf(&stream, "(%s) Tj\n", textEscaper.Replace(line))
		}
		stream.WriteString("ET")

		objects = append(objects,
			fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n",
				pageObj, pg.Width, pg.Height, contentObj),
			fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
				contentObj, stream.Len(), stream.String()),
		)
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, numObjs)
	for _, obj := range objects {
		offsets = append(offsets, b.Len())
		b.WriteString(obj)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", numObjs+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		numObjs+1, xrefOffset)

	return b.Bytes()
}
