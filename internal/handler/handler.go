package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gpatracker/internal/service"
)

// RecordService is what the record and chart handlers need from the service layer.
type RecordService interface {
	Summary(selectedYear int) (service.Summary, error)
	Save(sub service.Submission) (service.SavedSummary, error)
	TrendSeries() (service.Trend, error)
	ResetAll() error
	Export(w io.Writer) error
}

// ImportService is what the import and progress handlers need from the service layer.
type ImportService interface {
	ImportCSV(fileName string, r io.Reader) (*service.ImportProgress, error)
	GetFileProgress(fileName string) *service.ImportProgress
	GetAllFileProgress() []*service.ImportProgress
}

func writeJSON(w http.ResponseWriter, logger log.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Error(logger).Log("msg", "error encoding response", "err", err)
	}
}

func serverError(w http.ResponseWriter, logger log.Logger, msg string, err error) {
	level.Error(logger).Log("msg", msg, "err", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
