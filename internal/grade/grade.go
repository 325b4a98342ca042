// Package grade converts raw subject marks to grade points on a 10-point scale.
package grade

import "gpatracker/internal/model"

var thresholds = []struct {
	min   float64
	point int
}{
	{90, 10},
	{80, 9},
	{70, 8},
	{60, 7},
	{50, 6},
	{40, 5},
}

// Point maps a mark to its grade point. Lower bounds are inclusive and the
// function is total: out-of-range marks still fall through the thresholds.
func Point(mark float64) int {
	for _, t := range thresholds {
		if mark >= t.min {
			return t.point
		}
	}
	return 0
}

// SGPA is the unweighted mean of the grade points of a semester's marks.
func SGPA(marks [model.SubjectCount]float64) float64 {
	sum := 0
	for _, m := range marks {
		sum += Point(m)
	}
	return float64(sum) / float64(len(marks))
}
