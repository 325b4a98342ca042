package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"gpatracker/internal/model"
	"gpatracker/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"fixed2": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	},
	"marks": func(marks []float64) string {
		parts := make([]string, len(marks))
		for i, m := range marks {
			parts[i] = strconv.FormatFloat(m, 'f', -1, 64)
		}
		return strings.Join(parts, ", ")
	},
}

type RecordHandler struct {
	records RecordService
	logger  log.Logger
	tmpl    *template.Template
}

func NewRecordHandler(records RecordService, logger log.Logger) *RecordHandler {
	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
	return &RecordHandler{records: records, logger: logger, tmpl: tmpl}
}

type indexPage struct {
	Summary       service.Summary
	Flash         string
	FlashLevel    string
	YearOptions   []int
	SubjectFields []string
}

// Index renders the records table, CGPAs and the submission form.
func (h *RecordHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	yearQuery, _ := strconv.Atoi(query.Get("year_query"))

	summary, err := h.records.Summary(yearQuery)
	if err != nil {
		serverError(w, h.logger, "error loading records", err)
		return
	}

	page := indexPage{
		Summary:     summary,
		Flash:       query.Get("flash"),
		FlashLevel:  query.Get("level"),
		YearOptions: []int{1, 2, 3, 4},
	}
	for i := 1; i <= model.SubjectCount; i++ {
		page.SubjectFields = append(page.SubjectFields, fmt.Sprintf("m%d", i))
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		serverError(w, h.logger, "error rendering index", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Submit handles the HTML form and redirects back to the index with a flash message.
func (h *RecordHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "danger", "Please enter valid numbers for Year, Semester, and all 5 marks.")
		return
	}

	sub, err := service.SubmissionFromForm(r.PostForm)
	if err == nil {
		var saved service.SavedSummary
		saved, err = h.records.Save(sub)
		if err == nil {
			level.Info(h.logger).Log("msg", "record saved", "year", saved.Year, "semester", saved.Semester, "sgpa", saved.SGPA)
			redirectWithFlash(w, r, "success",
				fmt.Sprintf("Saved: Year %d Sem %d - SGPA %.2f", saved.Year, saved.Semester, saved.SGPA))
			return
		}
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		level.Info(h.logger).Log("msg", "submission rejected", "field", verr.Field, "reason", verr.Message)
		redirectWithFlash(w, r, "danger", verr.Message)
		return
	}
	serverError(w, h.logger, "error saving record", err)
}

// Reset clears every record from the HTML page.
func (h *RecordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.records.ResetAll(); err != nil {
		serverError(w, h.logger, "error resetting records", err)
		return
	}
	level.Info(h.logger).Log("msg", "records reset")
	redirectWithFlash(w, r, "success", "Graph data reset - all saved semesters cleared.")
}

// ListRecords returns the summary as JSON. year_query selects one year's CGPA.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	yearQuery, _ := strconv.Atoi(r.URL.Query().Get("year_query"))

	summary, err := h.records.Summary(yearQuery)
	if err != nil {
		serverError(w, h.logger, "error loading records", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summary)
}

type createRecordRequest struct {
	Year     *int      `json:"year"`
	Semester *int      `json:"semester"`
	Marks    []float64 `json:"marks"`
}

func (req createRecordRequest) submission() (service.Submission, error) {
	if req.Year == nil {
		return service.Submission{}, &service.ValidationError{Field: "year", Message: "year is required"}
	}
	if req.Semester == nil {
		return service.Submission{}, &service.ValidationError{Field: "semester", Message: "semester is required"}
	}
	if len(req.Marks) != model.SubjectCount {
		return service.Submission{}, &service.ValidationError{
			Field:   "marks",
			Message: fmt.Sprintf("marks must contain exactly %d values", model.SubjectCount),
		}
	}

	var marks [model.SubjectCount]float64
	copy(marks[:], req.Marks)
	return service.NewSubmission(*req.Year, *req.Semester, marks), nil
}

// CreateRecord accepts {"year":1,"semester":2,"marks":[...5 values]}.
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		verr := &service.ValidationError{Message: "request body must be JSON with numeric year, semester and marks"}
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			verr.Field = ute.Field
		}
		writeJSON(w, h.logger, http.StatusBadRequest, verr)
		return
	}

	sub, err := req.submission()
	if err == nil {
		var saved service.SavedSummary
		if saved, err = h.records.Save(sub); err == nil {
			writeJSON(w, h.logger, http.StatusCreated, saved)
			return
		}
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, h.logger, http.StatusBadRequest, verr)
		return
	}
	serverError(w, h.logger, "error saving record", err)
}

func (h *RecordHandler) ResetRecords(w http.ResponseWriter, r *http.Request) {
	if err := h.records.ResetAll(); err != nil {
		serverError(w, h.logger, "error resetting records", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "all saved semesters cleared",
	})
}

// ExportCSV downloads the full append log in the storage format.
func (h *RecordHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.records.Export(&buf); err != nil {
		serverError(w, h.logger, "error exporting records", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="records.csv"`)
	buf.WriteTo(w)
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, lvl, msg string) {
	q := url.Values{"flash": {msg}, "level": {lvl}}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
