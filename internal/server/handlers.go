package server

import (
	"bytes"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rollscan/rollscan/internal/pdf"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the health endpoint body.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// extractHandler accepts one uploaded roll scan (PNG, JPEG, or PDF)
// under the form field "file" and responds with the extraction run.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	maxBytes := s.cfg.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeError(w, "failed to parse form data", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, "no file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()
	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, "failed to read upload", http.StatusInternalServerError)
		return
	}

	input := "image"
	var pages []image.Image
	if strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		input = "pdf"
		pages, err = loadPDFUpload(data, r.FormValue("pages"))
	} else {
		var img image.Image
		img, _, err = image.Decode(bytes.NewReader(data))
		pages = []image.Image{img}
	}
	if err != nil {
		extractRequestsTotal.WithLabelValues(input, "error").Inc()
		s.writeError(w, "unreadable upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	run, err := s.pipeline.ProcessPages(r.Context(), pages)
	if err != nil {
		extractRequestsTotal.WithLabelValues(input, "error").Inc()
		slog.Error("extraction failed", "file", header.Filename, "error", err)
		s.writeError(w, "extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	extractRequestsTotal.WithLabelValues(input, "ok").Inc()
	extractDuration.WithLabelValues(input).Observe(time.Since(start).Seconds())
	recordsExtracted.Observe(float64(len(run.Records)))
	s.progress.broadcast(progressEvent{Stage: "done", Done: len(run.Pages), Total: len(run.Pages)})

	s.writeJSON(w, http.StatusOK, run)
}

// loadPDFUpload spools the upload to disk for pdfcpu, which operates on
// files.
func loadPDFUpload(data []byte, pageRange string) ([]image.Image, error) {
	tmp, err := os.CreateTemp("", "rollscan-upload-*.pdf")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return nil, err
	}
	pages, _, err := pdf.LoadPages(tmp.Name(), pageRange)
	return pages, err
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, msg string, status int) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
