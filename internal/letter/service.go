package letter

import (
	"fmt"
)

// Service orchestrates the letter processing components: scanning a master
// PDF, splitting it into individual letters, and producing the duplex-padded
// copy. Processing is sequential; filename allocation depends on processing
// order and must not be parallelized across groups.
type Service struct {
	maxFileSize int64
	scanner     *Scanner
	splitter    *Splitter
	padder      *Padder
}

// NewService creates a new letter service with all components.
func NewService(maxFileSize int64) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		scanner:     NewScanner(maxFileSize),
		splitter:    NewSplitter(),
		padder:      NewPadder(),
	}
}

// SplitFile splits a master PDF into individual letter PDFs and returns the
// envelope-number metadata mapping.
func (s *Service) SplitFile(req SplitFileRequest) (*SplitFileResult, error) {
	if req.OutputDir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}

	doc, err := s.scanner.ScanFile(req.Path)
	if err != nil {
		return nil, err
	}

	records, files, err := s.splitter.Split(doc, req.OutputDir)
	if err != nil {
		return nil, err
	}

	return &SplitFileResult{
		Path:      req.Path,
		OutputDir: req.OutputDir,
		Letters:   records,
		Files:     files,
	}, nil
}

// PadFile produces the duplex-padded copy of a master PDF.
func (s *Service) PadFile(req PadFileRequest) (*PadFileResult, error) {
	if req.OutputPath == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}

	doc, err := s.scanner.ScanFile(req.Path)
	if err != nil {
		return nil, err
	}

	summary, err := s.padder.Pad(doc, req.OutputPath)
	if err != nil {
		return nil, err
	}

	return &PadFileResult{
		Path:       req.Path,
		OutputPath: req.OutputPath,
		Summary:    *summary,
	}, nil
}

// ProcessFile runs split and pad over a single scan of the same master PDF,
// guaranteeing both transforms see identical letter boundaries.
func (s *Service) ProcessFile(req ProcessFileRequest) (*ProcessFileResult, error) {
	if req.OutputDir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if req.PaddedPath == "" {
		return nil, fmt.Errorf("padded output path cannot be empty")
	}

	doc, err := s.scanner.ScanFile(req.Path)
	if err != nil {
		return nil, err
	}

	records, files, err := s.splitter.Split(doc, req.OutputDir)
	if err != nil {
		return nil, err
	}

	summary, err := s.padder.Pad(doc, req.PaddedPath)
	if err != nil {
		return nil, err
	}

	return &ProcessFileResult{
		Split: &SplitFileResult{
			Path:      req.Path,
			OutputDir: req.OutputDir,
			Letters:   records,
			Files:     files,
		},
		Pad: &PadFileResult{
			Path:       req.Path,
			OutputPath: req.PaddedPath,
			Summary:    *summary,
		},
	}, nil
}

// ValidateFile reports whether a file is a readable source PDF.
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := s.scanner.ValidateFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}
	if !s.scanner.IsValidPDF(req.Path) {
		result.Message = fmt.Sprintf("invalid PDF file: %s", req.Path)
		return result, nil
	}

	result.Valid = true
	return result, nil
}

// GetMaxFileSize returns the maximum source file size limit.
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ValidateConfiguration validates the service configuration.
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	return nil
}
