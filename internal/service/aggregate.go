package service

import "gpatracker/internal/model"

// YearCGPA is the mean SGPA of both semesters of year. The second return
// value is false until both semester records exist.
func YearCGPA(records model.Records, year int) (float64, bool) {
	s1, ok1 := records[model.Slot{Year: year, Semester: 1}]
	s2, ok2 := records[model.Slot{Year: year, Semester: 2}]
	if !ok1 || !ok2 {
		return 0, false
	}
	return (s1.SGPA + s2.SGPA) / 2, true
}

// OverallCGPA is the mean SGPA over every stored slot, complete or not.
func OverallCGPA(records model.Records) (float64, bool) {
	sum, n := 0.0, 0
	for _, slot := range model.Slots() {
		if rec, ok := records[slot]; ok {
			sum += rec.SGPA
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
