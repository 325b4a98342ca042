package handler

import (
	"bytes"
	"net/http"

	"github.com/go-kit/log"

	"gpatracker/internal/chart"
)

type ChartHandler struct {
	records RecordService
	logger  log.Logger
}

func NewChartHandler(records RecordService, logger log.Logger) *ChartHandler {
	return &ChartHandler{records: records, logger: logger}
}

// GraphPNG renders the SGPA trend across the 8 semesters.
func (h *ChartHandler) GraphPNG(w http.ResponseWriter, r *http.Request) {
	trend, err := h.records.TrendSeries()
	if err != nil {
		serverError(w, h.logger, "error loading trend", err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderTrend(&buf, trend); err != nil {
		serverError(w, h.logger, "error rendering trend", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// Trend returns the trend series as JSON; gaps have a null sgpa and an
// empty trend has no points.
func (h *ChartHandler) Trend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.records.TrendSeries()
	if err != nil {
		serverError(w, h.logger, "error loading trend", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"empty":  trend.Empty(),
		"points": trend.Points,
	})
}
