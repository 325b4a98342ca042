package service

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCheck(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		sub     Submission
		field   string
		message string
	}{
		{"Valid", NewSubmission(1, 2, [5]float64{0, 100, 50, 39.5, 90}), "", ""},
		{"Year too low", NewSubmission(0, 1, [5]float64{50, 50, 50, 50, 50}), "year", "year must be between 1 and 4"},
		{"Year too high", NewSubmission(5, 1, [5]float64{50, 50, 50, 50, 50}), "year", "year must be between 1 and 4"},
		{"Semester 3", NewSubmission(1, 3, [5]float64{50, 50, 50, 50, 50}), "semester", "semester must be 1 or 2"},
		{"Mark above 100", NewSubmission(1, 1, [5]float64{50, 50, 101, 50, 50}), "m3", "m3 must be a number between 0 and 100"},
		{"Negative mark", NewSubmission(1, 1, [5]float64{-1, 50, 50, 50, 50}), "m1", "m1 must be a number between 0 and 100"},
		{"NaN mark", NewSubmission(1, 1, [5]float64{50, 50, 50, 50, math.NaN()}), "m5", "m5 must be a number between 0 and 100"},
		{"Infinite mark", NewSubmission(1, 1, [5]float64{50, math.Inf(1), 50, 50, 50}), "m2", "m2 must be a number between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.sub)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestSubmissionFromForm(t *testing.T) {
	form := url.Values{
		"year": {"2"}, "semester": {" 1 "},
		"m1": {"95"}, "m2": {"85.5"}, "m3": {"75"}, "m4": {"65"}, "m5": {"55"},
	}
	sub, err := SubmissionFromForm(form)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Year)
	assert.Equal(t, 1, sub.Semester)
	assert.Equal(t, [5]float64{95, 85.5, 75, 65, 55}, sub.Marks())

	form.Set("m4", "sixty")
	_, err = SubmissionFromForm(form)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "m4", verr.Field)

	form.Del("year")
	_, err = SubmissionFromForm(form)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "year", verr.Field)
}
