package service

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"gpatracker/internal/grade"
	"gpatracker/internal/model"
	"gpatracker/internal/store"
)

// DisplayRow is one canonical slot of the records table. Marks, SGPA and
// Timestamp are all absent when the slot has no record.
type DisplayRow struct {
	Year      int       `json:"year"`
	Semester  int       `json:"semester"`
	Label     string    `json:"label"`
	Marks     []float64 `json:"marks"`
	SGPA      *float64  `json:"sgpa"`
	Timestamp string    `json:"timestamp,omitempty"`
}

type SavedSummary struct {
	Year      int     `json:"year"`
	Semester  int     `json:"semester"`
	SGPA      float64 `json:"sgpa"`
	Timestamp string  `json:"timestamp"`
}

type YearSummary struct {
	Year int      `json:"year"`
	CGPA *float64 `json:"cgpa"`
}

// Summary is everything the index page shows.
type Summary struct {
	Rows             []DisplayRow  `json:"rows"`
	Years            []YearSummary `json:"years"`
	Overall          *float64      `json:"overall"`
	SelectedYear     int           `json:"selectedYear,omitempty"`
	SelectedYearCGPA *float64      `json:"selectedYearCgpa,omitempty"`
}

type RecordService struct {
	store     store.Store
	validator *Validator
}

func NewRecordService(s store.Store) *RecordService {
	return &RecordService{store: s, validator: NewValidator()}
}

// ListView returns one row per canonical slot, in slot order.
func (s *RecordService) ListView() ([]DisplayRow, error) {
	records, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}
	return displayRows(records), nil
}

// Submit validates and stores one semester. Nothing is written when
// validation fails; the error is then a *ValidationError.
func (s *RecordService) Submit(year, semester int, marks [model.SubjectCount]float64) (SavedSummary, error) {
	return s.Save(NewSubmission(year, semester, marks))
}

func (s *RecordService) Save(sub Submission) (SavedSummary, error) {
	if err := s.validator.Check(sub); err != nil {
		return SavedSummary{}, err
	}

	marks := sub.Marks()
	rec, err := s.store.Append(model.Record{
		Year:     sub.Year,
		Semester: sub.Semester,
		Marks:    marks,
		SGPA:     grade.SGPA(marks),
	})
	if err != nil {
		return SavedSummary{}, errors.Wrap(err, "save record")
	}

	return SavedSummary{
		Year:      rec.Year,
		Semester:  rec.Semester,
		SGPA:      rec.SGPA,
		Timestamp: rec.Timestamp.Format(model.TimestampLayout),
	}, nil
}

func (s *RecordService) TrendSeries() (Trend, error) {
	records, err := s.store.LoadAll()
	if err != nil {
		return Trend{}, err
	}
	return BuildTrend(records), nil
}

// ResetAll wipes every stored record.
func (s *RecordService) ResetAll() error {
	return errors.Wrap(s.store.Clear(), "reset records")
}

// Summary builds the list view with year and overall CGPAs. selectedYear
// outside 1..4 is ignored.
func (s *RecordService) Summary(selectedYear int) (Summary, error) {
	records, err := s.store.LoadAll()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Rows:    displayRows(records),
		Overall: optional(OverallCGPA(records)),
	}
	for y := 1; y <= 4; y++ {
		sum.Years = append(sum.Years, YearSummary{Year: y, CGPA: optional(YearCGPA(records, y))})
	}
	if selectedYear >= 1 && selectedYear <= 4 {
		sum.SelectedYear = selectedYear
		sum.SelectedYearCGPA = optional(YearCGPA(records, selectedYear))
	}
	return sum, nil
}

// Export writes the whole append log, header first, in the storage format.
func (s *RecordService) Export(w io.Writer) error {
	rows, err := s.store.Rows()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(store.Header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, rec := range rows {
		if err := writer.Write(store.FormatRow(rec)); err != nil {
			return errors.Wrap(err, "write record")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush export")
}

func displayRows(records model.Records) []DisplayRow {
	slots := model.Slots()
	rows := make([]DisplayRow, 0, len(slots))
	for _, slot := range slots {
		row := DisplayRow{Year: slot.Year, Semester: slot.Semester, Label: slot.String()}
		if rec, ok := records[slot]; ok {
			row.Marks = rec.Marks[:]
			row.SGPA = optional(rec.SGPA, true)
			row.Timestamp = rec.Timestamp.Format(model.TimestampLayout)
		}
		rows = append(rows, row)
	}
	return rows
}
