package service

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"gpatracker/internal/model"
)

var (
	yearTag      = "year"
	yearText     = "{0} must be between 1 and 4"
	semesterTag  = "semester"
	semesterText = "{0} must be 1 or 2"
	markTag      = "mark"
	markText     = "{0} must be a number between 0 and 100"
)

// ValidationError names the submitted field that failed and why.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Submission is one semester's input as it arrives from a form or JSON body.
type Submission struct {
	Year     int     `json:"year" validate:"year"`
	Semester int     `json:"semester" validate:"semester"`
	M1       float64 `json:"m1" validate:"mark"`
	M2       float64 `json:"m2" validate:"mark"`
	M3       float64 `json:"m3" validate:"mark"`
	M4       float64 `json:"m4" validate:"mark"`
	M5       float64 `json:"m5" validate:"mark"`
}

func NewSubmission(year, semester int, marks [model.SubjectCount]float64) Submission {
	return Submission{
		Year: year, Semester: semester,
		M1: marks[0], M2: marks[1], M3: marks[2], M4: marks[3], M5: marks[4],
	}
}

func (s Submission) Marks() [model.SubjectCount]float64 {
	return [model.SubjectCount]float64{s.M1, s.M2, s.M3, s.M4, s.M5}
}

// SubmissionFromForm parses year, semester and m1..m5. Missing or
// non-numeric values are reported as a ValidationError on that field.
func SubmissionFromForm(form url.Values) (Submission, error) {
	var sub Submission
	var err error

	if sub.Year, err = formInt(form, "year"); err != nil {
		return sub, err
	}
	if sub.Semester, err = formInt(form, "semester"); err != nil {
		return sub, err
	}
	marks := []*float64{&sub.M1, &sub.M2, &sub.M3, &sub.M4, &sub.M5}
	for i, m := range marks {
		if *m, err = formFloat(form, fmt.Sprintf("m%d", i+1)); err != nil {
			return sub, err
		}
	}
	return sub, nil
}

func formInt(form url.Values, field string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(form.Get(field)))
	if err != nil {
		return 0, &ValidationError{Field: field, Message: field + " must be a whole number"}
	}
	return v, nil
}

func formFloat(form url.Values, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(form.Get(field)), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Message: field + " must be a number between 0 and 100"}
	}
	return v, nil
}

// Validator checks submissions and translates failures into ValidationErrors.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(yearTag, func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y >= 1 && y <= 4
	})
	_ = validate.RegisterValidation(semesterTag, func(fl validator.FieldLevel) bool {
		s := fl.Field().Int()
		return s == 1 || s == 2
	})
	_ = validate.RegisterValidation(markTag, func(fl validator.FieldLevel) bool {
		m := fl.Field().Float()
		return !math.IsNaN(m) && m >= 0 && m <= 100
	})

	registerTranslation(validate, translator, yearTag, yearText)
	registerTranslation(validate, translator, semesterTag, semesterText)
	registerTranslation(validate, translator, markTag, markText)

	return &Validator{validate: validate, translator: translator}
}

// Check returns nil or a *ValidationError for the first failing field.
func (v *Validator) Check(sub Submission) error {
	err := v.validate.Struct(sub)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: fe.Translate(v.translator)}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
