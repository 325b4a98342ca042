package service

import (
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpatracker/internal/model"
)

func newTestImportService(t *testing.T) (*ImportService, *RecordService) {
	t.Helper()
	records, _ := newTestRecordService(t)
	return NewImportService(records, log.NewNopLogger()), records
}

func TestImportCSV(t *testing.T) {
	svc, records := newTestImportService(t)

	content := "year,semester,m1,m2,m3,m4,m5,sgpa,timestamp\n" +
		"1,1,95,85,75,65,55,1.00,2024-08-10T09:15:00\n" +
		"1,3,50,50,50,50,50,6.00,2024-08-10T09:15:00\n" +
		"1,2,90,90,abc,90,90,10.00,2024-08-10T09:15:00\n" +
		"2,1,90,90,90,90,90,,\n" +
		"2,2,90,90,90\n"

	progress, err := svc.ImportCSV("grades.csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, progress.Status)
	assert.Equal(t, 5, progress.TotalRecords)
	assert.Equal(t, 2, progress.Imported)
	assert.Equal(t, 3, progress.Rejected)
	assert.False(t, progress.EndTime.IsZero())

	require.Len(t, progress.Rejections, 3)
	assert.Equal(t, RowRejection{Line: 3, Field: "semester", Reason: "semester must be 1 or 2"}, progress.Rejections[0])
	assert.Equal(t, 4, progress.Rejections[1].Line)
	assert.Equal(t, "m3", progress.Rejections[1].Field)
	assert.Equal(t, 6, progress.Rejections[2].Line)

	// sgpa is recomputed from the marks, not taken from the file
	rows, err := records.ListView()
	require.NoError(t, err)
	assert.Equal(t, 8.0, *rows[0].SGPA)
	assert.Equal(t, 10.0, *rows[2].SGPA)
}

func TestImportCSVMissingHeader(t *testing.T) {
	svc, records := newTestImportService(t)

	progress, err := svc.ImportCSV("bad.csv", strings.NewReader("1,1,95,85,75,65,55,8.00,2024-08-10T09:15:00\n"))
	assert.Error(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, StatusError, progress.Status)
	assert.NotEmpty(t, progress.Error)

	trend, err := records.TrendSeries()
	require.NoError(t, err)
	assert.True(t, trend.Empty())
}

func TestImportCSVUnreadable(t *testing.T) {
	svc, _ := newTestImportService(t)

	_, err := svc.ImportCSV("quotes.csv", strings.NewReader("year,semester\n\"unterminated,1\n"))
	assert.Error(t, err)
	assert.Equal(t, StatusError, svc.GetFileProgress("quotes.csv").Status)
}

func TestGetFileProgress(t *testing.T) {
	svc, _ := newTestImportService(t)

	assert.Nil(t, svc.GetFileProgress("nonexistent.csv"))

	_, err := svc.ImportCSV("b.csv", strings.NewReader(strings.Join([]string{
		"year,semester,m1,m2,m3,m4,m5,sgpa,timestamp",
		"4,2,70,70,70,70,70,8.00,2025-01-01T00:00:00",
	}, "\n")))
	require.NoError(t, err)
	_, err = svc.ImportCSV("a.csv", strings.NewReader("year,semester,m1,m2,m3,m4,m5,sgpa,timestamp\n"))
	require.NoError(t, err)

	progress := svc.GetFileProgress("b.csv")
	require.NotNil(t, progress)
	assert.Equal(t, 1, progress.Imported)

	// returned values are copies
	progress.Imported = 99
	assert.Equal(t, 1, svc.GetFileProgress("b.csv").Imported)

	all := svc.GetAllFileProgress()
	require.Len(t, all, 2)
	assert.Equal(t, "a.csv", all[0].FileName)
	assert.Equal(t, 0, all[0].TotalRecords)
	assert.Equal(t, "b.csv", all[1].FileName)
}

func TestSubmissionFromRow(t *testing.T) {
	sub, err := submissionFromRow([]string{"3", "1", "41", "52", "63", "74", "85", "", ""})
	require.NoError(t, err)
	assert.Equal(t, model.Slot{Year: 3, Semester: 1}, model.Slot{Year: sub.Year, Semester: sub.Semester})
	assert.Equal(t, [5]float64{41, 52, 63, 74, 85}, sub.Marks())

	_, err = submissionFromRow([]string{"3", "1"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
