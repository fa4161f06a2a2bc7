package letter

import (
	"testing"

	"github.com/postalkit/lettersplit/internal/pdftest"
)

// fixturePage aliases the shared test PDF page description.
type fixturePage = pdftest.Page

func page(lines ...string) fixturePage {
	return pdftest.NewPage(lines...)
}

func sizedPage(width, height float64, lines ...string) fixturePage {
	return pdftest.SizedPage(width, height, lines...)
}

func letterPages(envelopeLine, salutation string, pageCount int) []fixturePage {
	return pdftest.LetterPages(envelopeLine, salutation, pageCount)
}

func writeFixturePDF(t *testing.T, path string, pages []fixturePage) {
	t.Helper()
	pdftest.WriteFile(t, path, pages)
}

// pageCountOf reads back a written PDF and returns its page count.
func pageCountOf(t *testing.T, path string) int {
	t.Helper()
	ctx, err := readContext(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return ctx.PageCount
}
