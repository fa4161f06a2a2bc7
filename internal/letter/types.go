package letter

// Page represents a single page of the source document after scanning.
// Text is the extracted plain text with line structure preserved; it is
// empty when the page has no recoverable text layer. Width and Height are
// the physical page dimensions in points, used only for blank-page sizing.
type Page struct {
	Number int     `json:"number"` // 1-based position in the source document
	Text   string  `json:"-"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is the scanned form of a source PDF: the path it was read from
// plus every page in document order. Pages are never mutated after scanning.
type Document struct {
	Path  string `json:"path"`
	Pages []Page `json:"pages"`
}

// FooterMarker is the (current, total) page-counter pair parsed from a
// page's "Page X of Y" footer line.
type FooterMarker struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Group is an ordered, non-empty run of pages believed to form one letter.
// Groups are created by the detector and only consumed afterwards.
type Group struct {
	Pages []Page `json:"pages"`
}

// PageCount returns the number of pages in the group.
func (g Group) PageCount() int {
	return len(g.Pages)
}

// FirstPage returns the group's first page.
func (g Group) FirstPage() Page {
	return g.Pages[0]
}

// LastPage returns the group's last page.
func (g Group) LastPage() Page {
	return g.Pages[len(g.Pages)-1]
}

// PageNumbers returns the 1-based source page numbers of the group in order.
func (g Group) PageNumbers() []int {
	nums := make([]int, len(g.Pages))
	for i, p := range g.Pages {
		nums[i] = p.Number
	}
	return nums
}

// HeaderFields holds the identifying fields extracted from a group's first
// page. EnvelopeNumber is 0 when no envelope line was found; Salutation is
// empty when absent.
type HeaderFields struct {
	EnvelopeNumber int    `json:"envelope_number"`
	Salutation     string `json:"salutation"`
}

// Record describes one materialized letter. Records are keyed by envelope
// number in the split mapping; groups without an envelope number still
// produce a file but never appear in the mapping.
type Record struct {
	Filename   string `json:"filename"`
	Salutation string `json:"salutation,omitempty"`
	PageCount  int    `json:"page_count"`
}

// PadSummary reports what the duplex padder produced.
type PadSummary struct {
	Letters       int `json:"letters"`
	PaddedLetters int `json:"padded_letters"`
	Pages         int `json:"pages"` // page count of the padded output
}

// Request Types

// SplitFileRequest represents a request to split a master PDF into
// individual letters.
type SplitFileRequest struct {
	Path      string `json:"path"`
	OutputDir string `json:"output_dir"`
}

// PadFileRequest represents a request to produce a duplex-padded copy of a
// master PDF.
type PadFileRequest struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

// ProcessFileRequest represents a request to run split and pad over a single
// scan of the same master PDF.
type ProcessFileRequest struct {
	Path       string `json:"path"`
	OutputDir  string `json:"output_dir"`
	PaddedPath string `json:"padded_path"`
}

// ValidateFileRequest represents a request to validate a source PDF.
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// Response Types

// SplitFileResult represents the result of a split operation.
type SplitFileResult struct {
	Path      string         `json:"path"`
	OutputDir string         `json:"output_dir"`
	Letters   map[int]Record `json:"letters"`
	Files     []string       `json:"files"` // filenames written, in processing order
}

// PadFileResult represents the result of a pad operation.
type PadFileResult struct {
	Path       string     `json:"path"`
	OutputPath string     `json:"output_path"`
	Summary    PadSummary `json:"summary"`
}

// ProcessFileResult represents the result of a combined split and pad run.
type ProcessFileResult struct {
	Split *SplitFileResult `json:"split"`
	Pad   *PadFileResult   `json:"pad"`
}

// ValidateFileResult represents the result of a validation operation.
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}
