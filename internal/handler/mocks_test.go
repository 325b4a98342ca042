package handler

import (
	"io"

	"github.com/stretchr/testify/mock"

	"gpatracker/internal/service"
)

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Summary(selectedYear int) (service.Summary, error) {
	args := m.Called(selectedYear)
	return args.Get(0).(service.Summary), args.Error(1)
}

func (m *MockRecordService) Save(sub service.Submission) (service.SavedSummary, error) {
	args := m.Called(sub)
	return args.Get(0).(service.SavedSummary), args.Error(1)
}

func (m *MockRecordService) TrendSeries() (service.Trend, error) {
	args := m.Called()
	return args.Get(0).(service.Trend), args.Error(1)
}

func (m *MockRecordService) ResetAll() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRecordService) Export(w io.Writer) error {
	args := m.Called(w)
	return args.Error(0)
}

type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportCSV(fileName string, r io.Reader) (*service.ImportProgress, error) {
	args := m.Called(fileName, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportProgress), args.Error(1)
}

func (m *MockImportService) GetFileProgress(fileName string) *service.ImportProgress {
	args := m.Called(fileName)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.ImportProgress)
}

func (m *MockImportService) GetAllFileProgress() []*service.ImportProgress {
	args := m.Called()
	return args.Get(0).([]*service.ImportProgress)
}
