package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpatracker/internal/service"
)

func TestGetFileProgress(t *testing.T) {
	mockService := new(MockImportService)
	mockService.On("GetFileProgress", "grades.csv").
		Return(&service.ImportProgress{FileName: "grades.csv", Status: service.StatusCompleted, Imported: 3})
	mockService.On("GetFileProgress", "missing.csv").Return(nil)
	h := NewProgressHandler(mockService, log.NewNopLogger())

	tests := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{"Known file", "/import/progress/file?fileName=grades.csv", http.StatusOK},
		{"Path stripped", "/import/progress/file?fileName=../../grades.csv", http.StatusOK},
		{"Unknown file", "/import/progress/file?fileName=missing.csv", http.StatusNotFound},
		{"No file name", "/import/progress/file", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.GetFileProgress(rr, httptest.NewRequest("GET", tt.target, nil))
			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedStatus == http.StatusOK {
				var progress service.ImportProgress
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&progress))
				assert.Equal(t, 3, progress.Imported)
			}
		})
	}
}

func TestGetAllProgress(t *testing.T) {
	mockService := new(MockImportService)
	mockService.On("GetAllFileProgress").Return([]*service.ImportProgress{
		{FileName: "a.csv", Status: service.StatusCompleted},
		{FileName: "b.csv", Status: service.StatusError},
	})
	h := NewProgressHandler(mockService, log.NewNopLogger())

	rr := httptest.NewRecorder()
	h.GetAllProgress(rr, httptest.NewRequest("GET", "/import/progress", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var progress []service.ImportProgress
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&progress))
	require.Len(t, progress, 2)
	assert.Equal(t, "b.csv", progress[1].FileName)
}
