package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gpatracker/internal/service"
)

type UploadHandler struct {
	imports        ImportService
	maxUploadBytes int64
	logger         log.Logger
}

func NewUploadHandler(imports ImportService, maxUploadBytes int64, logger log.Logger) *UploadHandler {
	return &UploadHandler{imports: imports, maxUploadBytes: maxUploadBytes, logger: logger}
}

// UploadCSV imports every file in the multipart field "files". Files are
// processed one after another, in request order.
func (h *UploadHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	results := make([]*service.ImportProgress, 0, len(files))
	for _, fh := range files {
		fileName := filepath.Base(fh.Filename)

		file, err := fh.Open()
		if err != nil {
			level.Error(h.logger).Log("msg", "error opening file", "file", fileName, "err", err)
			continue
		}

		progress, err := h.imports.ImportCSV(fileName, file)
		file.Close()
		if err != nil {
			level.Warn(h.logger).Log("msg", "error importing file", "file", fileName, "err", err)
		}
		if progress != nil {
			results = append(results, progress)
		}
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Files processed",
		"files":   results,
	})
}
