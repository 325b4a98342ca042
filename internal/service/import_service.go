package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"gpatracker/internal/model"
	"gpatracker/internal/store"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// RowRejection records why one imported row was not stored.
type RowRejection struct {
	Line   int    `json:"line"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

type ImportProgress struct {
	FileName     string         `json:"fileName"`
	TotalRecords int            `json:"totalRecords"`
	Imported     int            `json:"imported"`
	Rejected     int            `json:"rejected"`
	Rejections   []RowRejection `json:"rejections,omitempty"`
	Status       string         `json:"status"`
	Error        string         `json:"error,omitempty"`
	StartTime    time.Time      `json:"startTime"`
	EndTime      time.Time      `json:"endTime"`
}

// ImportService appends records from uploaded CSV files in the storage
// format. Every row goes through the same validation as a submission and
// its sgpa is recomputed from the marks.
type ImportService struct {
	records          *RecordService
	logger           log.Logger
	fileProgressMap  map[string]*ImportProgress
	fileProgressLock sync.RWMutex
}

func NewImportService(records *RecordService, logger log.Logger) *ImportService {
	return &ImportService{
		records:         records,
		logger:          logger,
		fileProgressMap: make(map[string]*ImportProgress),
	}
}

func (s *ImportService) GetFileProgress(fileName string) *ImportProgress {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

// GetAllFileProgress returns copies of every tracked import, ordered by file name.
func (s *ImportService) GetAllFileProgress() []*ImportProgress {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	result := make([]*ImportProgress, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FileName < result[j].FileName })
	return result
}

// ImportCSV reads r fully and appends its valid rows in file order. A file
// that is not readable CSV with the storage header fails as a whole and
// nothing is appended.
func (s *ImportService) ImportCSV(fileName string, r io.Reader) (*ImportProgress, error) {
	startTime := time.Now()
	s.setProgress(&ImportProgress{FileName: fileName, Status: StatusProcessing, StartTime: startTime})

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	lines, err := reader.ReadAll()
	if err != nil {
		return s.fail(fileName, errors.Wrap(err, "read csv"))
	}
	if len(lines) == 0 || !isHeader(lines[0]) {
		return s.fail(fileName, errors.New("missing header row "+fmt.Sprint(store.Header)))
	}

	rows := lines[1:]
	s.update(fileName, func(p *ImportProgress) { p.TotalRecords = len(rows) })

	for i, fields := range rows {
		line := i + 2
		sub, err := submissionFromRow(fields)
		if err == nil {
			_, err = s.records.Save(sub)
		}

		var verr *ValidationError
		switch {
		case err == nil:
			s.update(fileName, func(p *ImportProgress) { p.Imported++ })
		case errors.As(err, &verr):
			s.update(fileName, func(p *ImportProgress) {
				p.Rejected++
				p.Rejections = append(p.Rejections, RowRejection{Line: line, Field: verr.Field, Reason: verr.Message})
			})
		default:
			return s.fail(fileName, errors.Wrapf(err, "line %d", line))
		}
	}

	var result *ImportProgress
	s.update(fileName, func(p *ImportProgress) {
		p.Status = StatusCompleted
		p.EndTime = time.Now()
		copyProgress := *p
		result = &copyProgress
	})

	level.Info(s.logger).Log("msg", "import completed", "file", fileName,
		"imported", result.Imported, "rejected", result.Rejected, "took", time.Since(startTime))
	return result, nil
}

func (s *ImportService) setProgress(p *ImportProgress) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()
	s.fileProgressMap[p.FileName] = p
}

func (s *ImportService) update(fileName string, fn func(*ImportProgress)) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		fn(progress)
	}
}

func (s *ImportService) fail(fileName string, err error) (*ImportProgress, error) {
	s.update(fileName, func(p *ImportProgress) {
		p.Status = StatusError
		p.Error = err.Error()
		p.EndTime = time.Now()
	})
	level.Error(s.logger).Log("msg", "import failed", "file", fileName, "err", err)
	return s.GetFileProgress(fileName), err
}

func isHeader(fields []string) bool {
	if len(fields) != len(store.Header) {
		return false
	}
	for i, name := range store.Header {
		if fields[i] != name {
			return false
		}
	}
	return true
}

// submissionFromRow takes year, semester and the marks; sgpa and timestamp
// columns are ignored.
func submissionFromRow(fields []string) (Submission, error) {
	if len(fields) != len(store.Header) {
		return Submission{}, &ValidationError{
			Message: fmt.Sprintf("expected %d columns, got %d", len(store.Header), len(fields)),
		}
	}

	form := url.Values{}
	for i, name := range store.Header[:2+model.SubjectCount] {
		form.Set(name, fields[i])
	}
	return SubmissionFromForm(form)
}
