package letter

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Padder produces the duplex-print copy of a master PDF: every detected
// letter group with an odd page count gets one blank trailing page sized to
// the group's last page, and all groups are concatenated in order. It uses
// the same DetectGroups call as the splitter, so letter boundaries in the
// padded document match the individual files one to one.
type Padder struct{}

// NewPadder creates a new padder.
func NewPadder() *Padder {
	return &Padder{}
}

// Pad writes the padded document to outputPath. Pages the detector drops
// (markerless pages with no open group, discarded unclosed groups) do not
// appear in the output. A document with no detectable letters is an error.
func (p *Padder) Pad(doc *Document, outputPath string) (*PadSummary, error) {
	groups := DetectGroups(doc.Pages)
	if len(groups) == 0 {
		return nil, fmt.Errorf("no letters detected in %s", doc.Path)
	}

	ctx, err := readContext(doc.Path)
	if err != nil {
		return nil, err
	}

	summary := &PadSummary{Letters: len(groups)}
	parts := make([]io.ReadSeeker, 0, 2*len(groups))
	for _, group := range groups {
		groupCtx, err := pdfcpu.ExtractPages(ctx, group.PageNumbers(), false)
		if err != nil {
			return nil, fmt.Errorf("failed to extract pages %v: %w", group.PageNumbers(), err)
		}

		var buf bytes.Buffer
		if err := api.WriteContext(groupCtx, &buf); err != nil {
			return nil, fmt.Errorf("failed to assemble letter pages %v: %w", group.PageNumbers(), err)
		}
		parts = append(parts, bytes.NewReader(buf.Bytes()))
		summary.Pages += group.PageCount()

		if group.PageCount()%2 == 1 {
			last := group.LastPage()
			parts = append(parts, bytes.NewReader(blankPagePDF(last.Width, last.Height)))
			summary.PaddedLetters++
			summary.Pages++
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outputPath, err)
	}

	if err := api.MergeRaw(parts, out, false, model.NewDefaultConfiguration()); err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to write padded document %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, err
	}

	return summary, nil
}

// blankPagePDF builds a minimal single-page PDF whose page matches the given
// dimensions. Zero or negative dimensions fall back to US Letter.
func blankPagePDF(width, height float64) []byte {
	if width <= 0 {
		width = defaultPageWidth
	}
	if height <= 0 {
		height = defaultPageHeight
	}

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		fmt.Sprintf("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << >> >>\nendobj\n", width, height),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objects))
	for _, obj := range objects {
		offsets = append(offsets, b.Len())
		b.WriteString(obj)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return b.Bytes()
}
