package store

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"gpatracker/internal/model"
)

// CSVStore keeps records in a UTF-8 CSV file. Each call opens and closes the
// file; no handle is held between calls.
type CSVStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path, now: time.Now}
}

func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureInitialized()
}

func (s *CSVStore) ensureInitialized() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create data directory")
		}
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "create %s", s.path)
	}
	return writeHeader(file)
}

func (s *CSVStore) Rows() ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", s.path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, s.corrupt(err, 1)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, s.corrupt(errors.Errorf("unexpected header %v", header), 1)
		}
	}

	var rows []model.Record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, s.corrupt(err, 0)
		}
		line, _ := reader.FieldPos(0)

		rec, err := ParseRow(fields)
		if err != nil {
			return nil, s.corrupt(err, line)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func (s *CSVStore) LoadAll() (model.Records, error) {
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}
	return Fold(rows), nil
}

func (s *CSVStore) Append(rec model.Record) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(); err != nil {
		return rec, err
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return rec, errors.Wrapf(err, "open %s", s.path)
	}
	defer file.Close()

	rec.Timestamp = s.now().Truncate(time.Second)

	writer := csv.NewWriter(file)
	if err := writer.Write(FormatRow(rec)); err != nil {
		return rec, errors.Wrap(err, "write record")
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return rec, errors.Wrap(err, "flush record")
	}
	return rec, errors.Wrap(file.Sync(), "sync record")
}

func (s *CSVStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Create(s.path)
	if err != nil {
		return errors.Wrapf(err, "truncate %s", s.path)
	}
	return writeHeader(file)
}

func (s *CSVStore) corrupt(err error, line int) error {
	if pe, ok := err.(*csv.ParseError); ok {
		line = pe.Line
	}
	return &CorruptionError{Source: s.path, Line: line, Err: err}
}

// writeHeader writes the header row and closes file.
func writeHeader(file *os.File) error {
	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		file.Close()
		return errors.Wrap(err, "write header")
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return errors.Wrap(err, "flush header")
	}
	return errors.Wrap(file.Close(), "close record file")
}
