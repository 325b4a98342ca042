package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-kit/log"
)

type ProgressHandler struct {
	imports ImportService
	logger  log.Logger
}

func NewProgressHandler(imports ImportService, logger log.Logger) *ProgressHandler {
	return &ProgressHandler{imports: imports, logger: logger}
}

// GetFileProgress returns the import progress for a specific file
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		http.Error(w, "fileName parameter is required", http.StatusBadRequest)
		return
	}

	progress := h.imports.GetFileProgress(filepath.Base(fileName))
	if progress == nil {
		http.Error(w, "File not found or not imported", http.StatusNotFound)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, progress)
}

// GetAllProgress returns the progress for every imported file
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.imports.GetAllFileProgress())
}
