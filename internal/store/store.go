// Package store persists semester records as an append-only log.
//
// Every backend keeps rows in write order and never rewrites them. The keyed
// view returned by LoadAll resolves duplicate (year, semester) rows by keeping
// the most recently written one.
package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"gpatracker/internal/model"
)

// Header is the exact first row of the CSV storage format.
var Header = []string{"year", "semester", "m1", "m2", "m3", "m4", "m5", "sgpa", "timestamp"}

type Store interface {
	// EnsureInitialized creates empty storage if none exists. It is idempotent.
	EnsureInitialized() error
	// Rows returns every stored record in append order.
	Rows() ([]model.Record, error)
	// LoadAll returns the keyed view, last written row wins.
	LoadAll() (model.Records, error)
	// Append writes rec at the end of the log, stamped with the current time.
	Append(rec model.Record) (model.Record, error)
	// Clear removes every record.
	Clear() error
}

// CorruptionError reports a stored row that could not be parsed.
type CorruptionError struct {
	Source string
	Line   int
	Err    error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt record in %s at line %d: %v", e.Source, e.Line, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// IsCorruption reports whether err was caused by unparseable storage.
func IsCorruption(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}

// Fold builds the keyed view from rows in append order.
func Fold(rows []model.Record) model.Records {
	records := make(model.Records, len(rows))
	for _, r := range rows {
		records[r.Slot()] = r
	}
	return records
}

// FormatRow serializes rec in storage column order.
func FormatRow(rec model.Record) []string {
	row := make([]string, 0, len(Header))
	row = append(row, strconv.Itoa(rec.Year), strconv.Itoa(rec.Semester))
	for _, m := range rec.Marks {
		row = append(row, strconv.FormatFloat(m, 'f', -1, 64))
	}
	return append(row, FormatSGPA(rec.SGPA), rec.Timestamp.Format(model.TimestampLayout))
}

// FormatSGPA renders sgpa with exactly two decimal digits.
func FormatSGPA(sgpa float64) string {
	return strconv.FormatFloat(sgpa, 'f', 2, 64)
}

// ParseRow is the inverse of FormatRow.
func ParseRow(fields []string) (model.Record, error) {
	var rec model.Record
	if len(fields) != len(Header) {
		return rec, errors.Errorf("expected %d fields, got %d", len(Header), len(fields))
	}

	var err error
	if rec.Year, err = strconv.Atoi(fields[0]); err != nil {
		return rec, errors.Wrap(err, "year")
	}
	if rec.Semester, err = strconv.Atoi(fields[1]); err != nil {
		return rec, errors.Wrap(err, "semester")
	}
	if !rec.Slot().Valid() {
		return rec, errors.Errorf("slot %s is not a valid year-semester", rec.Slot())
	}
	for i := range rec.Marks {
		if rec.Marks[i], err = strconv.ParseFloat(fields[2+i], 64); err != nil {
			return rec, errors.Wrapf(err, "m%d", i+1)
		}
	}
	if rec.SGPA, err = strconv.ParseFloat(fields[7], 64); err != nil {
		return rec, errors.Wrap(err, "sgpa")
	}
	if rec.Timestamp, err = parseTimestamp(fields[8]); err != nil {
		return rec, err
	}
	return rec, nil
}

func parseTimestamp(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(model.TimestampLayout, s, time.Local)
	return ts, errors.Wrap(err, "timestamp")
}
