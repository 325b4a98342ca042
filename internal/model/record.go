package model

import (
	"fmt"
	"time"
)

const (
	// SubjectCount is the number of subject marks in every record.
	SubjectCount = 5

	// TimestampLayout is ISO-8601 local time, second precision, no offset.
	TimestampLayout = "2006-01-02T15:04:05"
)

// Slot identifies one (year, semester) position.
type Slot struct {
	Year     int
	Semester int
}

func (s Slot) String() string {
	return fmt.Sprintf("%d-%d", s.Year, s.Semester)
}

// Valid reports whether the slot is one of the 8 canonical positions.
func (s Slot) Valid() bool {
	return s.Year >= 1 && s.Year <= 4 && (s.Semester == 1 || s.Semester == 2)
}

// Slots returns the canonical ordering (1,1),(1,2),(2,1) ... (4,2).
func Slots() []Slot {
	slots := make([]Slot, 0, 8)
	for y := 1; y <= 4; y++ {
		for s := 1; s <= 2; s++ {
			slots = append(slots, Slot{Year: y, Semester: s})
		}
	}
	return slots
}

// Record is one submitted semester. Records are never modified after they are written.
type Record struct {
	Year      int
	Semester  int
	Marks     [SubjectCount]float64
	SGPA      float64
	Timestamp time.Time
}

func (r Record) Slot() Slot {
	return Slot{Year: r.Year, Semester: r.Semester}
}

// Records is the keyed view of the store, one record per slot.
type Records map[Slot]Record
