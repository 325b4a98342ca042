package store

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gpatracker/internal/model"
)

// DBStore keeps records in a SQL table through gorm. Row ids give the append order.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

func (s *DBStore) EnsureInitialized() error {
	return errors.Wrap(s.db.AutoMigrate(&model.RecordRow{}), "migrate records table")
}

func (s *DBStore) Rows() ([]model.Record, error) {
	var rows []model.RecordRow
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query records")
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, &CorruptionError{Source: "records table", Line: int(row.ID), Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *DBStore) LoadAll() (model.Records, error) {
	rows, err := s.Rows()
	if err != nil {
		return nil, err
	}
	return Fold(rows), nil
}

func (s *DBStore) Append(rec model.Record) (model.Record, error) {
	rec.Timestamp = s.now().Truncate(time.Second)
	row := toRow(rec)
	if err := s.db.Create(&row).Error; err != nil {
		return rec, errors.Wrap(err, "insert record")
	}
	return rec, nil
}

func (s *DBStore) Clear() error {
	err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.RecordRow{}).Error
	return errors.Wrap(err, "clear records")
}

func toRow(rec model.Record) model.RecordRow {
	return model.RecordRow{
		Year:      rec.Year,
		Semester:  rec.Semester,
		M1:        rec.Marks[0],
		M2:        rec.Marks[1],
		M3:        rec.Marks[2],
		M4:        rec.Marks[3],
		M5:        rec.Marks[4],
		SGPA:      FormatSGPA(rec.SGPA),
		Timestamp: rec.Timestamp.Format(model.TimestampLayout),
	}
}

func fromRow(row model.RecordRow) (model.Record, error) {
	rec := model.Record{
		Year:     row.Year,
		Semester: row.Semester,
		Marks:    [model.SubjectCount]float64{row.M1, row.M2, row.M3, row.M4, row.M5},
	}
	if !rec.Slot().Valid() {
		return rec, errors.Errorf("slot %s is not a valid year-semester", rec.Slot())
	}

	var err error
	if rec.SGPA, err = strconv.ParseFloat(row.SGPA, 64); err != nil {
		return rec, errors.Wrap(err, "sgpa")
	}
	if rec.Timestamp, err = parseTimestamp(row.Timestamp); err != nil {
		return rec, err
	}
	return rec, nil
}
