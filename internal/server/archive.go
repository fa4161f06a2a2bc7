package server

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/postalkit/lettersplit/internal/letter"
)

// packageResults writes a zip archive containing the individual letters,
// the duplex-padded copy and the envelope mapping.
func packageResults(archivePath, jobDir string, result *letter.ProcessFileResult) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", archivePath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for _, name := range result.Split.Files {
		src := filepath.Join(jobDir, lettersDirname, name)
		if err := addFileToZip(zw, src, filepath.Join(lettersDirname, name)); err != nil {
			zw.Close()
			return err
		}
	}

	if err := addFileToZip(zw, filepath.Join(jobDir, paddedFilename), paddedFilename); err != nil {
		zw.Close()
		return err
	}

	if err := addMappingToZip(zw, result.Split.Letters); err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return out.Close()
}

func addFileToZip(zw *zip.Writer, srcPath, entryName string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer src.Close()

	// zip entry names always use forward slashes
	entry, err := zw.Create(filepath.ToSlash(entryName))
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", entryName, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to write zip entry %s: %w", entryName, err)
	}
	return nil
}

func addMappingToZip(zw *zip.Writer, letters map[int]letter.Record) error {
	entry, err := zw.Create(mappingFilename)
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", mappingFilename, err)
	}

	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(letters); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}
	return nil
}
