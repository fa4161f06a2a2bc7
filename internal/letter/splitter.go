package letter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// maxNameAttempts bounds the filename collision counter. The counter resolves
// same-run collisions only; concurrent runs sharing an output directory are
// not protected.
const maxNameAttempts = 10000

const outputDirPerm = 0o750

// Splitter materializes detected letter groups as standalone PDF files and
// builds the envelope-number metadata mapping.
type Splitter struct{}

// NewSplitter creates a new splitter.
func NewSplitter() *Splitter {
	return &Splitter{}
}

// Split writes one PDF per detected group into outputDir and returns the
// metadata mapping plus the filenames written in processing order. Groups
// whose first page yields no envelope number still produce a file but are
// absent from the mapping. Any filesystem write failure aborts the whole
// operation.
func (s *Splitter) Split(doc *Document, outputDir string) (map[int]Record, []string, error) {
	if err := os.MkdirAll(outputDir, outputDirPerm); err != nil {
		return nil, nil, fmt.Errorf("cannot create output directory %s: %w", outputDir, err)
	}

	groups := DetectGroups(doc.Pages)
	records := make(map[int]Record, len(groups))
	if len(groups) == 0 {
		return records, nil, nil
	}

	ctx, err := readContext(doc.Path)
	if err != nil {
		return nil, nil, err
	}

	files := make([]string, 0, len(groups))
	for _, group := range groups {
		fields := ExtractHeaderFields(group.FirstPage().Text)

		path, filename, err := resolveFilename(outputDir, fields, len(records))
		if err != nil {
			return nil, nil, err
		}

		if err := writeGroup(ctx, group, path); err != nil {
			return nil, nil, err
		}
		files = append(files, filename)

		if fields.EnvelopeNumber > 0 {
			records[fields.EnvelopeNumber] = Record{
				Filename:   filename,
				Salutation: fields.Salutation,
				PageCount:  group.PageCount(),
			}
		}
	}

	return records, files, nil
}

// readContext opens a source PDF as a pdfcpu context with relaxed validation.
func readContext(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx, nil
}

// writeGroup assembles the group's pages into a standalone PDF at path.
func writeGroup(ctx *model.Context, group Group, path string) error {
	groupCtx, err := pdfcpu.ExtractPages(ctx, group.PageNumbers(), false)
	if err != nil {
		return fmt.Errorf("failed to extract pages %v: %w", group.PageNumbers(), err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := api.WriteContext(groupCtx, out); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

// resolveFilename derives a group's filename and resolves same-run
// collisions by appending an incrementing counter to the stem until a free
// name is found, up to maxNameAttempts.
func resolveFilename(dir string, fields HeaderFields, recorded int) (path, name string, err error) {
	base := baseFilename(fields, recorded)

	for counter := 0; counter <= maxNameAttempts; counter++ {
		if counter == 0 {
			name = base + ".pdf"
		} else {
			name = fmt.Sprintf("%s_%d.pdf", base, counter)
		}
		path = filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, name, nil
		}
	}

	return "", "", fmt.Errorf("could not allocate a unique filename for %s.pdf after %d attempts", base, maxNameAttempts)
}
