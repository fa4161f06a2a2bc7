// Package server exposes the letter splitting service over HTTP. Callers
// upload a master PDF, the service splits it into individual letters and
// produces a duplex-padded copy, and the results come back as a single
// zip archive.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postalkit/lettersplit/internal/config"
	"github.com/postalkit/lettersplit/internal/letter"
)

const (
	uploadField = "pdf"

	uploadFilename  = "upload.pdf"
	lettersDirname  = "individual-letters"
	paddedFilename  = "even_page_letters.pdf"
	mappingFilename = "letter_mapping.json"
	archiveFilename = "processed_letters.zip"

	shutdownTimeout = 10 * time.Second
)

// Server handles HTTP requests for the letter splitting service.
type Server struct {
	cfg *config.Config
	svc *letter.Service
	log *zap.Logger

	httpServer *http.Server
}

// New creates a server around the given service.
func New(cfg *config.Config, svc *letter.Service, log *zap.Logger) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		log: log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /download/{id}", s.handleDownload)

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", zap.String("address", s.cfg.Address()))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": s.cfg.ServiceName,
		"version": s.cfg.Version,
	})
}

// handleUpload accepts a multipart master PDF, runs both transforms over it
// and responds with a process id for downloading the packaged results.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing 'pdf' form file")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		s.writeError(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		s.writeError(w, http.StatusBadRequest, "uploaded file is not a PDF")
		return
	}

	processID := uuid.New().String()
	jobDir := filepath.Join(s.cfg.WorkDir, processID)
	if err := os.MkdirAll(jobDir, config.DefaultDirPerm); err != nil {
		s.log.Error("Failed to create job directory", zap.String("dir", jobDir), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to create processing directory")
		return
	}

	uploadPath := filepath.Join(jobDir, uploadFilename)
	if err := saveUpload(uploadPath, file); err != nil {
		s.cleanupJob(jobDir)
		s.log.Error("Failed to save upload", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to save uploaded file")
		return
	}

	result, err := s.svc.ProcessFile(letter.ProcessFileRequest{
		Path:       uploadPath,
		OutputDir:  filepath.Join(jobDir, lettersDirname),
		PaddedPath: filepath.Join(jobDir, paddedFilename),
	})
	if err != nil {
		s.cleanupJob(jobDir)
		s.log.Warn("Processing failed",
			zap.String("process_id", processID),
			zap.String("filename", header.Filename),
			zap.Error(err))
		s.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("processing failed: %v", err))
		return
	}

	archivePath := filepath.Join(jobDir, archiveFilename)
	if err := packageResults(archivePath, jobDir, result); err != nil {
		s.cleanupJob(jobDir)
		s.log.Error("Failed to package results", zap.String("process_id", processID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to package results")
		return
	}

	s.log.Info("Processed master PDF",
		zap.String("process_id", processID),
		zap.String("filename", header.Filename),
		zap.Int("letters", len(result.Split.Files)),
		zap.Int("mapped_letters", len(result.Split.Letters)),
		zap.Int("padded_pages", result.Pad.Summary.Pages))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"process_id":     processID,
		"letters_count":  len(result.Split.Files),
		"mapped_letters": len(result.Split.Letters),
		"padded":         result.Pad.Summary,
	})
}

// handleDownload streams the packaged results for a process id and removes
// the job directory afterwards.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// ids are uuids we generated; anything else is rejected before it can
	// reach the filesystem
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid process id")
		return
	}

	jobDir := filepath.Join(s.cfg.WorkDir, id)
	archivePath := filepath.Join(jobDir, archiveFilename)

	f, err := os.Open(archivePath)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no results for this process id")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveFilename))
	if _, err := io.Copy(w, f); err != nil {
		s.log.Warn("Download interrupted", zap.String("process_id", id), zap.Error(err))
		return
	}

	// results are one-shot; reclaim the space once delivered
	s.cleanupJob(jobDir)
}

func (s *Server) cleanupJob(jobDir string) {
	if err := os.RemoveAll(jobDir); err != nil {
		s.log.Warn("Failed to remove job directory", zap.String("dir", jobDir), zap.Error(err))
	}
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return dst.Close()
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
