package letter

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Default page dimensions (US Letter, points) used when the source document
// does not report dimensions for a page.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Scanner reads a source PDF into the in-memory page model consumed by the
// detector: per-page line-structured text plus physical dimensions.
type Scanner struct {
	maxFileSize int64
}

// NewScanner creates a new scanner with the specified constraints.
func NewScanner(maxFileSize int64) *Scanner {
	return &Scanner{
		maxFileSize: maxFileSize,
	}
}

// ScanFile validates and reads a source PDF. Pages with no recoverable text
// layer yield empty text; only an unreadable document structure is an error.
func (s *Scanner) ScanFile(path string) (*Document, error) {
	if err := s.ValidateFile(path); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]Page, 0, numPages)
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := Page{
			Number: pageNum,
			Width:  defaultPageWidth,
			Height: defaultPageHeight,
		}
		if pageNum-1 < len(dims) {
			page.Width = dims[pageNum-1].Width
			page.Height = dims[pageNum-1].Height
		}

		p := reader.Page(pageNum)
		if !p.V.IsNull() {
			page.Text = pageText(p)
		}
		pages = append(pages, page)
	}

	return &Document{Path: path, Pages: pages}, nil
}

// ValidateFile performs basic validation on a source PDF path.
func (s *Scanner) ValidateFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > s.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), s.maxFileSize)
	}

	return nil
}

// IsValidPDF reports whether a file passes validation and opens as a PDF.
func (s *Scanner) IsValidPDF(path string) bool {
	if err := s.ValidateFile(path); err != nil {
		return false
	}
	f, _, err := pdf.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// pageText rebuilds line-structured text from a page's positioned text
// elements: elements are bucketed into rows top to bottom, stream order is
// preserved within a row, and a space is inserted where the horizontal gap
// between adjacent elements exceeds what a word break would produce.
func pageText(p pdf.Page) (text string) {
	defer func() {
		// Some malformed content streams panic inside the text walker;
		// treat those pages as having no text layer.
		if recover() != nil {
			text = ""
		}
	}()

	content := p.Content()
	texts := content.Text
	if len(texts) == 0 {
		return ""
	}

	sort.SliceStable(texts, func(i, j int) bool {
		return texts[i].Y > texts[j].Y
	})

	const rowTolerance = 2.0

	var b strings.Builder
	rowY := texts[0].Y
	havePrev := false
	var prev pdf.Text
	for _, t := range texts {
		if rowY-t.Y > rowTolerance {
			b.WriteByte('\n')
			rowY = t.Y
			havePrev = false
		}
		if havePrev && prev.W > 0 {
			threshold := t.FontSize * 0.3
			if threshold <= 0 {
				threshold = 1.0
			}
			if t.X-(prev.X+prev.W) > threshold {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
		havePrev = true
	}

	return b.String()
}
